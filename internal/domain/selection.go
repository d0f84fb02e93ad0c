package domain

import "slices"

// Selection is the set of selected record ids. It is independent of
// pagination: filtering, sorting or paging never drop ids from it.
//
// The zero value is an empty selection ready to use.
type Selection struct {
	ids map[int]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...int) *Selection {
	s := &Selection{}
	s.Replace(ids)
	return s
}

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Toggle adds id when absent and removes it when present.
// It returns whether id is selected afterwards.
func (s *Selection) Toggle(id int) bool {
	if s.ids == nil {
		s.ids = make(map[int]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Replace sets the selection to exactly ids.
func (s *Selection) Replace(ids []int) {
	s.ids = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[int]struct{})
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// AllSelected reports whether every visible id is selected.
// An empty page is never "all selected".
func (s *Selection) AllSelected(visible []int) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// VisibleToggleTarget computes the selection a "select all on this page"
// action leads to: the current selection minus visible when every visible id
// is already selected, the union of both otherwise.
func (s *Selection) VisibleToggleTarget(visible []int) []int {
	if s.AllSelected(visible) {
		drop := make(map[int]struct{}, len(visible))
		for _, id := range visible {
			drop[id] = struct{}{}
		}
		out := make([]int, 0, len(s.ids))
		for _, id := range s.IDs() {
			if _, ok := drop[id]; !ok {
				out = append(out, id)
			}
		}
		return out
	}

	out := s.IDs()
	for _, id := range visible {
		if !s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// ToggleVisible applies VisibleToggleTarget and reports whether the visible
// ids ended up selected.
func (s *Selection) ToggleVisible(visible []int) bool {
	s.Replace(s.VisibleToggleTarget(visible))
	return s.AllSelected(visible)
}

// Prune drops ids for which exists returns false and returns them.
func (s *Selection) Prune(exists func(id int) bool) []int {
	var dropped []int
	for _, id := range s.IDs() {
		if !exists(id) {
			delete(s.ids, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}
