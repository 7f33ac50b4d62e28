package issue

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"scribe/internal/client"
	"scribe/internal/logging"
)

var ErrValidation = errors.New("please fill out all fields")

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

type Request struct {
	Token string `validate:"required"`
	Repo  string `validate:"required,repo"`
	Title string `validate:"required"`
	Body  string `validate:"required"`
}

var requestValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("repo", func(fl validator.FieldLevel) bool {
		return repoPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError lists the fields that blocked a request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Normalize trims every field except the token, which is passed on as given.
func (r Request) Normalize() Request {
	return Request{
		Token: r.Token,
		Repo:  strings.TrimSpace(r.Repo),
		Title: strings.TrimSpace(r.Title),
		Body:  strings.TrimSpace(r.Body),
	}
}

func (r Request) Validate() error {
	check := r.Normalize()
	check.Token = strings.TrimSpace(check.Token)
	err := requestValidator.Struct(check)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := strings.ToLower(fe.Field())
		if fe.Tag() == "repo" {
			name += " (expected owner/name)"
		}
		fields = append(fields, name)
	}
	return &ValidationError{Fields: fields}
}

type Backend interface {
	CreateGitHubIssue(ctx context.Context, req client.IssueRequest) (string, error)
}

type Creator struct {
	backend Backend
	logger  logging.Logger
}

func NewCreator(backend Backend, logger logging.Logger) *Creator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Creator{backend: backend, logger: logger}
}

// Create validates req and files the issue, returning its URL. Invalid
// requests never reach the backend.
func (c *Creator) Create(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	req = req.Normalize()
	url, err := c.backend.CreateGitHubIssue(ctx, client.IssueRequest{
		GitHubToken: req.Token,
		RepoName:    req.Repo,
		Title:       req.Title,
		Body:        req.Body,
	})
	if err != nil {
		c.logger.Warn("create issue failed", logging.F("repo", req.Repo), logging.Err(err))
		return "", err
	}
	c.logger.Info("issue created", logging.F("repo", req.Repo), logging.F("url", url))
	return url, nil
}
