package client

import (
	"fmt"
	"strings"
	"time"

	"scribe/internal/types"
)

type transcriptDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// createdAtLayouts covers RFC 3339 and the zone-less forms SQLite
// timestamps serialize to. Zone-less values are UTC.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreatedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized created_at %q", raw)
}

// toNote converts d. An unparseable created_at still yields the note with
// a zero CreatedAt; the parse error is returned alongside it.
func (d transcriptDTO) toNote() (types.Note, error) {
	createdAt, err := parseCreatedAt(d.CreatedAt)
	return types.Note{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: createdAt,
	}, err
}

type ChatRequest struct {
	Transcripts []string `json:"transcripts"`
	Question    string   `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type AnalysisResponse struct {
	Transcript   string `json:"transcript"`
	TranscriptID int64  `json:"transcript_id,omitempty"`
}

type YouTubeRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type IssueRequest struct {
	GitHubToken string `json:"github_token"`
	RepoName    string `json:"repo_name"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

type IssueResponse struct {
	IssueURL string `json:"issue_url"`
}

type deleteResponse struct {
	Message string `json:"message"`
}
