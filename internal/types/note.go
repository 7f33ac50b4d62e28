package types

import (
	"strings"
	"time"
)

// Note is a stored meeting transcript as served by the backend.
type Note struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Content   string    `json:"content" yaml:"content"`
}

func (n Note) DisplayTitle() string {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return "Untitled"
	}
	return title
}

func CloneNotes(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
