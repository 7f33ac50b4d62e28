package workspace

// SelectionState is the set of checked note ids, kept in the order they
// were checked.
type SelectionState struct {
	order []int64
	set   map[int64]struct{}
}

func NewSelectionState() *SelectionState {
	return &SelectionState{set: map[int64]struct{}{}}
}

// Toggle flips membership and reports whether id is now selected.
func (s *SelectionState) Toggle(id int64) bool {
	selected := !s.IsSelected(id)
	s.Set(id, selected)
	return selected
}

func (s *SelectionState) Set(id int64, selected bool) {
	_, present := s.set[id]
	switch {
	case selected && !present:
		s.set[id] = struct{}{}
		s.order = append(s.order, id)
	case !selected && present:
		delete(s.set, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *SelectionState) IsSelected(id int64) bool {
	_, ok := s.set[id]
	return ok
}


func (s *SelectionState) Clear() {
	s.order = nil
	s.set = map[int64]struct{}{}
}

// Snapshot returns a fresh copy on every call.
func (s *SelectionState) Snapshot() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

// Retain drops every id for which keep returns false and returns the
// dropped ids.
func (s *SelectionState) Retain(keep func(id int64) bool) []int64 {
	var dropped []int64
	kept := s.order[:0]
	for _, id := range s.order {
		if keep(id) {
			kept = append(kept, id)
			continue
		}
		delete(s.set, id)
		dropped = append(dropped, id)
	}
	s.order = kept
	return dropped
}
