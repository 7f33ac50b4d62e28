package main

import (
	"context"
	"io"

	"scribe/internal/client"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/types"
)

type clientFactory func(cfg config.Config, logger logging.Logger) (commandClient, error)

// commandClient is the backend surface the commands use. It is a superset
// of workspace.API and issue.Backend.
type commandClient interface {
	ListTranscripts(ctx context.Context) ([]types.Note, error)
	DeleteTranscript(ctx context.Context, id int64) error
	Chat(ctx context.Context, transcripts []string, question string) (string, error)
	AnalyzeAudio(ctx context.Context, filename, contentType string, audio io.Reader) (*client.AnalysisResponse, error)
	DownloadFromYouTube(ctx context.Context, url, title string) (*client.AnalysisResponse, error)
	CreateGitHubIssue(ctx context.Context, req client.IssueRequest) (string, error)
}

func newBackendClient(cfg config.Config, logger logging.Logger) (commandClient, error) {
	return client.New(cfg, logger), nil
}
