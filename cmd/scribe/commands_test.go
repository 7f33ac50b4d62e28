package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"scribe/internal/app"
	"scribe/internal/client"
	"scribe/internal/config"
	"scribe/internal/handoff"
	"scribe/internal/issue"
	"scribe/internal/logging"
	"scribe/internal/types"
	"scribe/internal/workspace"
)

type fakeClient struct {
	notes     []types.Note
	listErr   error
	deleted   []int64
	chatGot   []string
	question  string
	answer    string
	chatErr   error
	analysis  *client.AnalysisResponse
	audioName string
	audioType string
	audioBody string
	issueGot  *client.IssueRequest
	issueURL  string
}

func (f *fakeClient) ListTranscripts(ctx context.Context) ([]types.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return types.CloneNotes(f.notes), nil
}

func (f *fakeClient) DeleteTranscript(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	kept := f.notes[:0]
	for _, note := range f.notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	f.notes = kept
	return nil
}

func (f *fakeClient) Chat(ctx context.Context, transcripts []string, question string) (string, error) {
	f.chatGot = append([]string(nil), transcripts...)
	f.question = question
	return f.answer, f.chatErr
}

func (f *fakeClient) AnalyzeAudio(ctx context.Context, filename, contentType string, audio io.Reader) (*client.AnalysisResponse, error) {
	data, _ := io.ReadAll(audio)
	f.audioName, f.audioType, f.audioBody = filename, contentType, string(data)
	return f.analysis, nil
}

func (f *fakeClient) DownloadFromYouTube(ctx context.Context, url, title string) (*client.AnalysisResponse, error) {
	return f.analysis, nil
}

func (f *fakeClient) CreateGitHubIssue(ctx context.Context, req client.IssueRequest) (string, error) {
	f.issueGot = &req
	return f.issueURL, nil
}

type memoryKeyring struct {
	secrets map[string]string
}

func (k *memoryKeyring) Get(service, user string) (string, error) {
	secret, ok := k.secrets[service+"/"+user]
	if !ok {
		return "", nil
	}
	return secret, nil
}

func (k *memoryKeyring) Set(service, user, secret string) error {
	if k.secrets == nil {
		k.secrets = map[string]string{}
	}
	k.secrets[service+"/"+user] = secret
	return nil
}

type harness struct {
	t       *testing.T
	api     *fakeClient
	wiring  commandWiring
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	keyring *memoryKeyring
	uiOpts  *app.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t: t,
		api: &fakeClient{notes: []types.Note{
			{ID: 3, Title: "Planning", CreatedAt: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC), Content: "[00:01] [Speaker 1]: ship friday"},
			{ID: 1, Title: "Standup", CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), Content: "blocked on review"},
		}},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		keyring: &memoryKeyring{},
	}
	handoffPath := filepath.Join(t.TempDir(), "handoff.db")
	h.wiring = commandWiring{
		stdin:  strings.NewReader(""),
		stdout: h.stdout,
		stderr: h.stderr,
		newClient: func(cfg config.Config, logger logging.Logger) (commandClient, error) {
			return h.api, nil
		},
		loadConfig: func(string) (config.Config, error) {
			return config.DefaultConfig(), nil
		},
		handoffPath: func() (string, error) { return handoffPath, nil },
		tokens: &issue.TokenResolver{
			Getenv:  func(string) string { return "" },
			Keyring: h.keyring,
		},
		readPassword: func() (string, error) { return "ghp_saved\n", nil },
		runUI: func(api workspace.API, opts app.Options) error {
			h.uiOpts = &opts
			return nil
		},
		location: time.UTC,
		version:  "test",
	}
	return h
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	root := newRootCommand(h.wiring)
	root.SetArgs(args)
	return root.Execute()
}

func TestNotesListText(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("notes", "list"))
	out := h.stdout.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Standup")
	assert.Less(t, strings.Index(out, "Planning"), strings.Index(out, "Standup"))
}

func TestNotesListYAML(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("notes", "list", "-o", "yaml"))
	var got []noteSummary
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, "2024-05-02T09:30:00Z", got[0].CreatedAt)
}

func TestNotesListRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t)
	require.Error(t, h.run("notes", "list", "-o", "xml"))
}

func TestNotesListSurfacesLoadError(t *testing.T) {
	h := newHarness(t)
	h.api.listErr = &client.APIError{StatusCode: 500, Message: "database locked"}
	err := h.run("notes", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestNotesShowFormatsTranscript(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("notes", "show", "3"))
	assert.Contains(t, h.stdout.String(), "[00:01] Speaker 1: ship friday")

	err := h.run("notes", "show", "99")
	require.ErrorIs(t, err, workspace.ErrNoteNotFound)
}

func TestNotesDeletePrompts(t *testing.T) {
	h := newHarness(t)
	h.wiring.stdin = strings.NewReader("n\n")
	require.NoError(t, h.run("notes", "delete", "3"))
	assert.Contains(t, h.stdout.String(), "canceled")
	assert.Empty(t, h.api.deleted)

	h.wiring.stdin = strings.NewReader("yes\n")
	require.NoError(t, h.run("notes", "delete", "3"))
	assert.Equal(t, []int64{3}, h.api.deleted)
	assert.Contains(t, h.stdout.String(), "deleted note 3")
}

func TestNotesDeleteYesSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("notes", "delete", "--yes", "1"))
	assert.Equal(t, []int64{1}, h.api.deleted)
	assert.NotContains(t, h.stdout.String(), "[y/N]")
}

func TestAskSendsSelectedTranscripts(t *testing.T) {
	h := newHarness(t)
	h.api.answer = "Ship on Friday."
	require.NoError(t, h.run("ask", "--note", "3", "what", "was", "decided?"))
	assert.Equal(t, []string{"[00:01] [Speaker 1]: ship friday"}, h.api.chatGot)
	assert.Equal(t, "what was decided?", h.api.question)
	assert.Equal(t, "Ship on Friday.\n", h.stdout.String())
}

func TestAskValidation(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.run("ask", "hello"), workspace.ErrNoSelection)
	require.ErrorIs(t, h.run("ask", "--note", "3", "  "), workspace.ErrEmptyQuestion)
	require.ErrorIs(t, h.run("ask", "--note", "42", "hello"), workspace.ErrNoteNotFound)
}

func TestAskReportsBackendFailure(t *testing.T) {
	h := newHarness(t)
	h.api.chatErr = &client.APIError{StatusCode: 502, Message: "model offline"}
	err := h.run("ask", "--note", "1", "status?")
	require.Error(t, err)
	assert.Equal(t, "Sorry, an error occurred: model offline", err.Error())
}

func TestIngestAudioStoresHandoff(t *testing.T) {
	h := newHarness(t)
	h.api.analysis = &client.AnalysisResponse{Transcript: "[00:00] [Speaker 1]: hello", TranscriptID: 7}
	path := filepath.Join(t.TempDir(), "standup.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o600))

	require.NoError(t, h.run("ingest", "audio", "--content-type", "audio/wav", path))
	assert.Equal(t, "standup.wav", h.api.audioName)
	assert.Equal(t, "audio/wav", h.api.audioType)
	assert.Equal(t, "RIFF", h.api.audioBody)
	assert.Contains(t, h.stdout.String(), "saved as note 7")

	require.NoError(t, h.run("handoff", "take", "-o", "json"))
	assert.Contains(t, h.stdout.String(), `"source": "audio"`)
	assert.Contains(t, h.stdout.String(), `"title": "standup"`)

	require.NoError(t, h.run("handoff", "show"))
	assert.Equal(t, "no transcript loaded\n", h.stdout.String())
}

func TestIngestAudioRejectsNonAudio(t *testing.T) {
	h := newHarness(t)
	err := h.run("ingest", "audio", "--content-type", "application/pdf", "slides.pdf")
	require.ErrorIs(t, err, client.ErrUnsupportedMedia)
}

func TestIngestYouTubeValidatesURL(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.run("ingest", "youtube", "https://vimeo.com/1"), client.ErrInvalidYouTubeURL)

	h.api.analysis = &client.AnalysisResponse{Transcript: "talk", TranscriptID: 8}
	require.NoError(t, h.run("ingest", "youtube", "--title", "Keynote", "https://youtu.be/abc"))

	store, err := handoff.Open(mustHandoffPath(t, h))
	require.NoError(t, err)
	defer store.Close()
	entry, ok, err := store.Peek(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Keynote", entry.Title)
	assert.Equal(t, "youtube", entry.Source)
	assert.Equal(t, int64(8), entry.TranscriptID)
}

func mustHandoffPath(t *testing.T, h *harness) string {
	t.Helper()
	path, err := h.wiring.handoffPath()
	require.NoError(t, err)
	return path
}

func TestIssueComposePrintsBody(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("issue", "compose", "3"))
	out := h.stdout.String()
	assert.Contains(t, out, "**Title:** Planning")
	assert.Contains(t, out, "**Time:** 2024-05-02 09:30:00 UTC")
}

func TestIssueCreateFromNote(t *testing.T) {
	h := newHarness(t)
	h.api.issueURL = "https://github.com/acme/meetings/issues/9"
	require.NoError(t, h.run("issue", "create", "--repo", "acme/meetings", "--note", "3", "--token", "ghp_flag"))
	require.NotNil(t, h.api.issueGot)
	assert.Equal(t, "ghp_flag", h.api.issueGot.GitHubToken)
	assert.Equal(t, "Follow-up: Planning", h.api.issueGot.Title)
	assert.Contains(t, h.api.issueGot.Body, "ship friday")
	assert.Equal(t, "https://github.com/acme/meetings/issues/9\n", h.stdout.String())
}

func TestIssueCreateBlocksMissingFields(t *testing.T) {
	h := newHarness(t)
	err := h.run("issue", "create", "--repo", "acme/meetings", "--title", "x")
	require.ErrorIs(t, err, issue.ErrValidation)
	assert.Nil(t, h.api.issueGot)
}

func TestIssueLoginSavesToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("issue", "login"))
	token, source, err := h.wiring.tokens.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "ghp_saved", token)
	assert.Equal(t, issue.TokenFromKeyring, source)
}

func TestConfigPrintsTOML(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("--backend", "http://notes.internal:9000", "config"))
	assert.Contains(t, h.stdout.String(), "http://notes.internal:9000")

	require.NoError(t, h.run("config", "--defaults"))
	assert.Contains(t, h.stdout.String(), "http://127.0.0.1:8000")
}

func TestUICommandPassesOptions(t *testing.T) {
	h := newHarness(t)
	h.wiring.loadConfig = func(string) (config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.Logging.File = filepath.Join(t.TempDir(), "scribe.log")
		return cfg, nil
	}
	require.NoError(t, h.run("ui", "--plain"))
	require.NotNil(t, h.uiOpts)
	assert.False(t, h.uiOpts.Markdown)
	assert.Equal(t, "2006-01-02", h.uiOpts.DateFormat)
	assert.Equal(t, 2*time.Minute, h.uiOpts.ChatTimeout)
}

func TestLoadConfigErrorStopsCommand(t *testing.T) {
	h := newHarness(t)
	h.wiring.loadConfig = func(string) (config.Config, error) {
		return config.Config{}, errors.New("invalid config: backend url")
	}
	err := h.run("notes", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestPromptYesNo(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, promptYesNo(strings.NewReader("Y\n"), &out, "Delete?"))
	assert.False(t, promptYesNo(strings.NewReader(""), &out, "Delete?"))
	assert.False(t, promptYesNo(strings.NewReader("sure\n"), &out, "Delete?"))
	assert.Contains(t, out.String(), "Delete? [y/N]")
}

func TestPrintNotesTruncatesWideTitles(t *testing.T) {
	var out bytes.Buffer
	long := strings.Repeat("議事録", 30)
	printNotes(&out, []types.Note{{ID: 1, Title: long}}, "2006-01-02")
	assert.Contains(t, out.String(), "…")
	assert.NotContains(t, out.String(), long)
}

func TestNotesShowKeepsParagraphBreaks(t *testing.T) {
	h := newHarness(t)
	h.api.notes[1].Content = "Agenda first.\n\n\nThen blockers."
	require.NoError(t, h.run("notes", "show", "1"))
	assert.Contains(t, h.stdout.String(), "Agenda first.\n\nThen blockers.\n")
}
