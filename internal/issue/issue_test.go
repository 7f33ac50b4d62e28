package issue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"scribe/internal/client"
	"scribe/internal/types"
)

func TestComposeBody(t *testing.T) {
	note := types.Note{
		ID:        4,
		Title:     "Planning",
		CreatedAt: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
		Content:   "[00:01] [Speaker 1]: ship it\n",
	}
	body := ComposeBody(note, time.UTC)
	want := "### Related meeting notes\n\n" +
		"**Title:** Planning\n" +
		"**Time:** 2024-05-02 09:30:00 UTC\n\n" +
		"---\n\n" +
		"### Meeting transcript\n\n" +
		"```\n[00:01] [Speaker 1]: ship it\n```"
	assert.Equal(t, want, body)
}

func TestComposeBodyWidensFenceAroundBackticks(t *testing.T) {
	body := ComposeBody(types.Note{Title: "", Content: "run ```go test```"}, time.UTC)
	assert.Contains(t, body, "**Title:** Untitled")
	assert.Contains(t, body, "**Time:** unknown")
	assert.True(t, strings.HasSuffix(body, "\n````"), body)
	assert.Contains(t, body, "````\nrun ```go test```\n````")
}

func TestValidateReportsMissingFields(t *testing.T) {
	err := Request{Token: " ", Repo: "not-a-repo", Title: "x", Body: ""}.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{"token", "repo (expected owner/name)", "body"}, vErr.Fields)
}

type fakeBackend struct {
	got   *client.IssueRequest
	url   string
	err   error
	calls int
}

func (f *fakeBackend) CreateGitHubIssue(ctx context.Context, req client.IssueRequest) (string, error) {
	f.calls++
	f.got = &req
	return f.url, f.err
}

func TestCreateBlocksInvalidRequest(t *testing.T) {
	backend := &fakeBackend{}
	_, err := NewCreator(backend, nil).Create(context.Background(), Request{Repo: "acme/meetings"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, backend.calls)
}

func TestCreateTrimsFieldsButNotToken(t *testing.T) {
	backend := &fakeBackend{url: "https://github.com/acme/meetings/issues/1"}
	url, err := NewCreator(backend, nil).Create(context.Background(), Request{
		Token: "ghp_abc ",
		Repo:  " acme/meetings ",
		Title: " Follow-up ",
		Body:  "body\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/meetings/issues/1", url)
	require.NotNil(t, backend.got)
	assert.Equal(t, client.IssueRequest{
		GitHubToken: "ghp_abc ",
		RepoName:    "acme/meetings",
		Title:       "Follow-up",
		Body:        "body",
	}, *backend.got)
}

func TestCreateSurfacesBackendError(t *testing.T) {
	backend := &fakeBackend{err: &client.APIError{StatusCode: 401, Message: "Bad credentials"}}
	_, err := NewCreator(backend, nil).Create(context.Background(), Request{
		Token: "t", Repo: "a/b", Title: "x", Body: "y",
	})
	require.Error(t, err)
	assert.Equal(t, "Bad credentials", client.AsAPIError(err).Message)
}

func TestResolveTokenOrder(t *testing.T) {
	keyring.MockInit()
	resolver := &TokenResolver{
		Getenv:  func(string) string { return "" },
		Keyring: SystemKeyring(),
	}

	_, _, err := resolver.Resolve("")
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, resolver.Save("from-keyring"))
	token, source, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", token)
	assert.Equal(t, TokenFromKeyring, source)

	resolver.Getenv = func(key string) string {
		if key == EnvToken {
			return "from-env"
		}
		return ""
	}
	token, source, err = resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
	assert.Equal(t, TokenFromEnv, source)

	token, source, err = resolver.Resolve("from-flag")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", token)
	assert.Equal(t, TokenFromFlag, source)
}

type brokenKeyring struct{}

func (brokenKeyring) Get(string, string) (string, error) { return "", errors.New("dbus not running") }
func (brokenKeyring) Set(string, string, string) error   { return errors.New("dbus not running") }

func TestResolveTokenKeyringFailure(t *testing.T) {
	resolver := &TokenResolver{Keyring: brokenKeyring{}}
	_, _, err := resolver.Resolve("")
	require.ErrorIs(t, err, ErrNoToken)
	require.ErrorIs(t, err, ErrKeyringUnavailable)
	require.ErrorIs(t, resolver.Save("x"), ErrKeyringUnavailable)
}
