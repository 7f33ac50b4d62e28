package workspace

import "scribe/internal/types"

// NoteStore holds the collection last returned by the backend, in backend
// order. It is replaced wholesale and never patched.
type NoteStore struct {
	order []int64
	byID  map[int64]types.Note
}

func NewNoteStore() *NoteStore {
	return &NoteStore{byID: map[int64]types.Note{}}
}

// Replace swaps in a fresh collection. A duplicated id keeps its last
// occurrence, both content and position.
func (s *NoteStore) Replace(notes []types.Note) {
	seen := make(map[int64]struct{}, len(notes))
	order := make([]int64, 0, len(notes))
	byID := make(map[int64]types.Note, len(notes))
	for i := len(notes) - 1; i >= 0; i-- {
		note := notes[i]
		if _, ok := seen[note.ID]; ok {
			continue
		}
		seen[note.ID] = struct{}{}
		order = append(order, note.ID)
		byID[note.ID] = note
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	s.order = order
	s.byID = byID
}

func (s *NoteStore) Find(id int64) (types.Note, bool) {
	note, ok := s.byID[id]
	return note, ok
}

func (s *NoteStore) Has(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *NoteStore) Notes() []types.Note {
	out := make([]types.Note, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}


func (s *NoteStore) Len() int {
	return len(s.order)
}
