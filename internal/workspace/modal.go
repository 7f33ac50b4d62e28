package workspace

import "scribe/internal/types"

// TranscriptModal shows at most one note. It keeps the id only; the note
// itself is always read from the store.
type TranscriptModal struct {
	id   int64
	open bool
}

func (m *TranscriptModal) show(id int64) {
	m.id = id
	m.open = true
}

func (m *TranscriptModal) hide() bool {
	wasOpen := m.open
	m.id = 0
	m.open = false
	return wasOpen
}

// OpenModal is a no-op for ids the store does not hold.
func (w *Workspace) OpenModal(id int64) bool {
	w.mu.Lock()
	if !w.notes.Has(id) {
		w.mu.Unlock()
		return false
	}
	w.modal.show(id)
	w.mu.Unlock()
	w.emit(ChangeModal)
	return true
}

func (w *Workspace) CloseModal() {
	w.mu.Lock()
	changed := w.modal.hide()
	w.mu.Unlock()
	if changed {
		w.emit(ChangeModal)
	}
}

func (w *Workspace) Modal() (types.Note, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.modal.open {
		return types.Note{}, false
	}
	return w.notes.Find(w.modal.id)
}
