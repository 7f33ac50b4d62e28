package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/types"
)

const (
	defaultBaseURL = "http://127.0.0.1:8000"
	tracerName     = "scribe/client"
	requestIDKey   = "X-Request-ID"
)

var (
	ErrInvalidYouTubeURL = errors.New("not a YouTube URL")
	ErrUnsupportedMedia  = errors.New("unsupported file type, expected audio")
)

var youTubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

type Client struct {
	baseURL       string
	http          *http.Client
	chatTimeout   time.Duration
	ingestTimeout time.Duration
	logger        logging.Logger
	tracer        trace.Tracer
}

func New(cfg config.Config, logger logging.Logger) *Client {
	c := NewWithBaseURL(cfg.BackendURL())
	c.http.Timeout = cfg.RequestTimeout()
	c.chatTimeout = cfg.ChatTimeout()
	c.ingestTimeout = cfg.IngestTimeout()
	if logger != nil {
		c.logger = logger
	}
	return c
}

func NewWithBaseURL(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		chatTimeout:   2 * time.Minute,
		ingestTimeout: 10 * time.Minute,
		logger:        logging.Nop(),
		tracer:        otel.Tracer(tracerName),
	}
}


func (c *Client) ListTranscripts(ctx context.Context) ([]types.Note, error) {
	var resp []transcriptDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/transcripts", nil, &resp); err != nil {
		return nil, err
	}
	notes := make([]types.Note, 0, len(resp))
	for _, dto := range resp {
		note, err := dto.toNote()
		if err != nil {
			c.logger.Warn("bad transcript timestamp",
				logging.F("transcript_id", dto.ID),
				logging.F("created_at", dto.CreatedAt),
				logging.Err(err),
			)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (c *Client) DeleteTranscript(ctx context.Context, id int64) error {
	var resp deleteResponse
	path := "/api/transcripts/" + strconv.FormatInt(id, 10)
	return c.doJSON(ctx, http.MethodDelete, path, nil, &resp)
}

// Chat waits up to the chat timeout; model answers routinely outlast the
// default request timeout.
func (c *Client) Chat(ctx context.Context, transcripts []string, question string) (string, error) {
	if transcripts == nil {
		transcripts = []string{}
	}
	req := ChatRequest{Transcripts: transcripts, Question: question}
	var resp ChatResponse
	if err := c.doJSONWithTimeout(ctx, http.MethodPost, "/api/chat", req, &resp, c.chatTimeout); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) AnalyzeAudio(ctx context.Context, filename, contentType string, audio io.Reader) (*AnalysisResponse, error) {
	contentType = strings.TrimSpace(contentType)
	if !strings.HasPrefix(strings.ToLower(contentType), "audio/") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
	}
	if audio == nil {
		return nil, errors.New("audio is required")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "audio"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var resp AnalysisResponse
	client := c.clientWithTimeout(c.ingestTimeout)
	if err := c.do(ctx, http.MethodPost, "/api/analyze-audio", &body, writer.FormDataContentType(), &resp, client); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DownloadFromYouTube(ctx context.Context, url, title string) (*AnalysisResponse, error) {
	url = strings.TrimSpace(url)
	if !ValidYouTubeURL(url) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidYouTubeURL, url)
	}
	req := YouTubeRequest{URL: url, Title: strings.TrimSpace(title)}
	var resp AnalysisResponse
	if err := c.doJSONWithTimeout(ctx, http.MethodPost, "/api/download-from-youtube", req, &resp, c.ingestTimeout); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateGitHubIssue forwards the caller's token untouched.
func (c *Client) CreateGitHubIssue(ctx context.Context, req IssueRequest) (string, error) {
	var resp IssueResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/github/issue", req, &resp); err != nil {
		return "", err
	}
	return resp.IssueURL, nil
}

func ValidYouTubeURL(url string) bool {
	return youTubeURLPattern.MatchString(strings.TrimSpace(url))
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	return c.doJSONWithClient(ctx, method, path, body, out, c.http)
}

func (c *Client) doJSONWithTimeout(ctx context.Context, method, path string, body any, out any, timeout time.Duration) error {
	return c.doJSONWithClient(ctx, method, path, body, out, c.clientWithTimeout(timeout))
}

func (c *Client) clientWithTimeout(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return c.http
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: c.http.Transport,
	}
}

func (c *Client) doJSONWithClient(ctx context.Context, method, path string, body any, out any, httpClient *http.Client) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out, httpClient)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, httpClient *http.Client) (err error) {
	requestID := logging.NewRequestID()
	ctx, span := c.tracer.Start(ctx, "scribe.client "+method+" "+routeName(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("scribe.request_id", requestID),
		),
	)
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		fields := []logging.Field{
			logging.F("method", method),
			logging.F("path", path),
			logging.F("request_id", requestID),
			logging.F("duration", time.Since(start)),
		}
		if err != nil {
			c.logger.Warn("backend request failed", append(fields, logging.Err(err))...)
			return
		}
		c.logger.Debug("backend request", fields...)
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDKey, requestID)

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// routeName collapses numeric path segments so span names stay low-cardinality.
func routeName(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)
	if msg := detailMessage(payload.Detail); msg != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// detailMessage reads a FastAPI detail field: a plain string, or a list of
// validation entries carrying msg.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var entries []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, entry := range entries {
			msg := strings.TrimSpace(entry.Msg)
			if msg == "" {
				continue
			}
			if len(entry.Loc) > 0 {
				loc := make([]string, 0, len(entry.Loc))
				for _, part := range entry.Loc {
					loc = append(loc, fmt.Sprint(part))
				}
				msg = strings.Join(loc, ".") + ": " + msg
			}
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(raw))
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
