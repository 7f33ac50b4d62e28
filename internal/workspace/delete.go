package workspace

import (
	"context"
	"time"

	"scribe/internal/logging"
	"scribe/internal/types"
)

type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteConfirming
	DeleteDeleting
)

func (s DeleteState) String() string {
	switch s {
	case DeleteConfirming:
		return "confirming"
	case DeleteDeleting:
		return "deleting"
	default:
		return "idle"
	}
}

// DeleteWorkflow tracks one confirm/delete cycle per note id. Ids absent
// from the map are idle.
type DeleteWorkflow struct {
	states map[int64]DeleteState
}

func NewDeleteWorkflow() *DeleteWorkflow {
	return &DeleteWorkflow{states: map[int64]DeleteState{}}
}

func (d *DeleteWorkflow) State(id int64) DeleteState {
	return d.states[id]
}

func (d *DeleteWorkflow) request(id int64) error {
	if d.states[id] == DeleteDeleting {
		return ErrDeleteInProgress
	}
	d.states[id] = DeleteConfirming
	return nil
}

func (d *DeleteWorkflow) decline(id int64) bool {
	if d.states[id] != DeleteConfirming {
		return false
	}
	delete(d.states, id)
	return true
}

func (d *DeleteWorkflow) begin(id int64) error {
	switch d.states[id] {
	case DeleteConfirming:
		d.states[id] = DeleteDeleting
		return nil
	case DeleteDeleting:
		return ErrDeleteInProgress
	default:
		return ErrNotConfirming
	}
}

func (d *DeleteWorkflow) finish(id int64) {
	delete(d.states, id)
}


// RequestDelete opens the confirmation gate for id.
func (w *Workspace) RequestDelete(id int64) error {
	w.mu.Lock()
	if !w.notes.Has(id) {
		w.mu.Unlock()
		return ErrNoteNotFound
	}
	err := w.deletes.request(id)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.emit(ChangeDelete)
	return nil
}

func (w *Workspace) DeclineDelete(id int64) {
	w.mu.Lock()
	changed := w.deletes.decline(id)
	w.mu.Unlock()
	if changed {
		w.emit(ChangeDelete)
	}
}

// ConfirmDelete removes id on the backend and then reloads the whole
// collection. A failed delete leaves the note in place.
func (w *Workspace) ConfirmDelete(ctx context.Context, id int64) error {
	w.mu.Lock()
	err := w.deletes.begin(id)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.emit(ChangeDelete)

	reqCtx, cancel := w.requestContext(ctx)
	start := time.Now()
	err = w.api.DeleteTranscript(reqCtx, id)
	cancel()

	w.mu.Lock()
	w.deletes.finish(id)
	w.mu.Unlock()
	w.emit(ChangeDelete)

	if err != nil {
		w.logger.Warn("delete failed", logging.F("note_id", id), logging.Err(err))
		return err
	}
	w.logger.Info("note deleted", logging.F("note_id", id), logging.F("duration", time.Since(start)))
	// A failed reload is reported through LoadError; the delete itself succeeded.
	_ = w.Load(ctx)
	return nil
}

// Delete runs the whole workflow with confirm as the gate.
func (w *Workspace) Delete(ctx context.Context, id int64, confirm func(types.Note) bool) error {
	if err := w.RequestDelete(id); err != nil {
		return err
	}
	note, ok := w.Find(id)
	if !ok || confirm == nil || !confirm(note) {
		w.DeclineDelete(id)
		if !ok {
			return ErrNoteNotFound
		}
		return ErrDeleteDeclined
	}
	return w.ConfirmDelete(ctx, id)
}

func (w *Workspace) DeleteState(id int64) DeleteState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deletes.State(id)
}
