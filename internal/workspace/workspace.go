// Package workspace owns the notes collection, the selection over it, the
// chat log and the delete and transcript-view flows built on them.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"scribe/internal/logging"
	"scribe/internal/sanitizer"
	"scribe/internal/types"
)

var (
	ErrEmptyQuestion    = errors.New("please enter a question")
	ErrNoSelection      = errors.New("select at least one note first")
	ErrNoteNotFound     = errors.New("note not found")
	ErrDeleteInProgress = errors.New("delete already in progress")
	ErrNotConfirming    = errors.New("delete was not requested")
	ErrDeleteDeclined   = errors.New("delete declined")
	ErrChatAlreadySent  = errors.New("chat request already sent")
)

// IsValidation reports whether err was raised before any request was made.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyQuestion) || errors.Is(err, ErrNoSelection)
}

type API interface {
	ListTranscripts(ctx context.Context) ([]types.Note, error)
	DeleteTranscript(ctx context.Context, id int64) error
	Chat(ctx context.Context, transcripts []string, question string) (string, error)
}

type Change int

const (
	ChangeNotes Change = iota + 1
	ChangeSelection
	ChangeMessages
	ChangeModal
	ChangeDelete
	ChangeLoadError
)

func (c Change) String() string {
	switch c {
	case ChangeNotes:
		return "notes"
	case ChangeSelection:
		return "selection"
	case ChangeMessages:
		return "messages"
	case ChangeModal:
		return "modal"
	case ChangeDelete:
		return "delete"
	case ChangeLoadError:
		return "load_error"
	default:
		return "unknown"
	}
}

type Options struct {
	// RequestTimeout bounds list and delete calls; zero means none.
	RequestTimeout time.Duration
	// ChatTimeout bounds a chat call; zero means none.
	ChatTimeout time.Duration
	// Sanitizer cleans answers once, before they enter the log.
	Sanitizer sanitizer.Sanitizer
	Logger    logging.Logger
	// OnChange runs after the state lock is released, possibly from the
	// goroutine that completed a request.
	OnChange func(Change)
	Now      func() time.Time
}

type Workspace struct {
	api       API
	opts      Options
	logger    logging.Logger
	sanitizer sanitizer.Sanitizer

	mu        sync.Mutex
	notes     *NoteStore
	selection *SelectionState
	chat      *ChatLog
	deletes   *DeleteWorkflow
	modal     TranscriptModal
	loadErr   error
}

func New(api API, opts Options) *Workspace {
	w := &Workspace{
		api:       api,
		opts:      opts,
		logger:    opts.Logger,
		sanitizer: opts.Sanitizer,
		notes:     NewNoteStore(),
		selection: NewSelectionState(),
		chat:      NewChatLog(),
		deletes:   NewDeleteWorkflow(),
	}
	if w.logger == nil {
		w.logger = logging.Nop()
	}
	if w.sanitizer == nil {
		w.sanitizer = sanitizer.ForBackendText()
	}
	return w
}

// Load replaces the collection with the backend's. On failure the previous
// collection stays and the error is kept for LoadError. Concurrent loads
// are last-completed-wins.
func (w *Workspace) Load(ctx context.Context) error {
	reqCtx, cancel := w.requestContext(ctx)
	defer cancel()
	notes, err := w.api.ListTranscripts(reqCtx)
	if err != nil {
		w.mu.Lock()
		w.loadErr = err
		w.mu.Unlock()
		w.logger.Warn("load notes failed", logging.Err(err))
		w.emit(ChangeLoadError)
		return err
	}

	w.mu.Lock()
	w.notes.Replace(notes)
	w.loadErr = nil
	dropped := w.selection.Retain(w.notes.Has)
	modalClosed := false
	if w.modal.open && !w.notes.Has(w.modal.id) {
		modalClosed = w.modal.hide()
	}
	count := w.notes.Len()
	w.mu.Unlock()

	w.logger.Debug("notes loaded", logging.F("count", count), logging.F("dropped_selection", len(dropped)))
	changes := []Change{ChangeNotes, ChangeLoadError}
	if len(dropped) > 0 {
		changes = append(changes, ChangeSelection)
	}
	if modalClosed {
		changes = append(changes, ChangeModal)
	}
	w.emit(changes...)
	return nil
}

func (w *Workspace) LoadError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadErr
}

func (w *Workspace) Notes() []types.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notes.Notes()
}

func (w *Workspace) Find(id int64) (types.Note, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notes.Find(id)
}

// Toggle flips the selection of id and reports the new state. Ids the
// store does not hold are never selected.
func (w *Workspace) Toggle(id int64) bool {
	w.mu.Lock()
	if !w.notes.Has(id) {
		w.mu.Unlock()
		return false
	}
	selected := w.selection.Toggle(id)
	w.mu.Unlock()
	w.emit(ChangeSelection)
	return selected
}

func (w *Workspace) SetSelected(id int64, selected bool) bool {
	w.mu.Lock()
	if selected && !w.notes.Has(id) {
		w.mu.Unlock()
		return false
	}
	w.selection.Set(id, selected)
	w.mu.Unlock()
	w.emit(ChangeSelection)
	return true
}

func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	w.selection.Clear()
	w.mu.Unlock()
	w.emit(ChangeSelection)
}

func (w *Workspace) IsSelected(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.IsSelected(id)
}

// Selection returns the selected ids in selection order.
func (w *Workspace) Selection() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Snapshot()
}

func (w *Workspace) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if w.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, w.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func (w *Workspace) now() time.Time {
	if w.opts.Now != nil {
		return w.opts.Now()
	}
	return time.Now()
}

func (w *Workspace) emit(changes ...Change) {
	if w.opts.OnChange == nil {
		return
	}
	for _, change := range changes {
		w.opts.OnChange(change)
	}
}
