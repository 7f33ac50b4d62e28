package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scribe/internal/types"
	"scribe/internal/workspace"
)

type fakeNotesAPI struct {
	mu        sync.Mutex
	notes     []types.Note
	listErr   error
	deleteErr error
	deleted   []int64
	questions []string
	answer    func(question string) (string, error)
}

func (f *fakeNotesAPI) ListTranscripts(ctx context.Context) ([]types.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return types.CloneNotes(f.notes), nil
}

func (f *fakeNotesAPI) DeleteTranscript(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.notes[:0]
	for _, note := range f.notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	f.notes = kept
	return nil
}

func (f *fakeNotesAPI) Chat(ctx context.Context, transcripts []string, question string) (string, error) {
	f.mu.Lock()
	f.questions = append(f.questions, question)
	answer := f.answer
	f.mu.Unlock()
	if answer == nil {
		return "", errors.New("no answer configured")
	}
	return answer(question)
}

func (f *fakeNotesAPI) chatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}

func sampleNotes() []types.Note {
	at := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	return []types.Note{
		{ID: 1, Title: "Planning", CreatedAt: at, Content: "[00:01] [Speaker 1]: ship friday\n[00:05] [Speaker 2]: agreed"},
		{ID: 2, Title: "Standup", CreatedAt: at.Add(24 * time.Hour), Content: "[00:00] [Ana]: blocked on review"},
		{ID: 3, Title: "Retro", CreatedAt: at.Add(48 * time.Hour), Content: "plain notes"},
	}
}

func newLoadedModel(t *testing.T, api *fakeNotesAPI) *Model {
	t.Helper()
	ws := workspace.New(api, workspace.Options{})
	model := NewModel(ws, Options{
		DateFormat: "2006-01-02",
		Now:        func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	m := &model
	m.resize(100, 30)
	m.Update(loadNotesCmd(ws)())
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}
