// Package handoff keeps the single transcript passed from an ingestion run
// to the next chat session.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketHandoff = []byte("handoff")
	keyTranscript = []byte("transcriptForLLM")
)

var ErrEmptyTranscript = errors.New("transcript is empty")

type Entry struct {
	Transcript   string    `json:"transcript"`
	Title        string    `json:"title,omitempty"`
	Source       string    `json:"source,omitempty"`
	TranscriptID int64     `json:"transcript_id,omitempty"`
	StoredAt     time.Time `json:"stored_at"`
}

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("handoff db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHandoff)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put replaces whatever transcript was waiting.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry.Transcript = strings.TrimSpace(entry.Transcript)
	if entry.Transcript == "" {
		return ErrEmptyTranscript
	}
	entry.Title = strings.TrimSpace(entry.Title)
	if entry.StoredAt.IsZero() {
		entry.StoredAt = s.now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHandoff).Put(keyTranscript, data)
	})
}

// Peek reads the waiting transcript without consuming it. A missing entry
// is reported with ok=false and no error.
func (s *Store) Peek(ctx context.Context) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	var (
		entry Entry
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketHandoff).Get(keyTranscript)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return Entry{}, false, err
	}
	return entry, found, nil
}

// Take reads and removes the waiting transcript in one transaction.
func (s *Store) Take(ctx context.Context) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	var (
		entry Entry
		found bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketHandoff)
		data := bucket.Get(keyTranscript)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return bucket.Delete(keyTranscript)
	})
	if err != nil {
		return Entry{}, false, err
	}
	return entry, found, nil
}
