package model

import "slices"

// Selection is an ordered set of product IDs.
// IDs keep the order in which they were first added. The zero value is an
// empty selection. Mutating methods return a new Selection and never touch
// the receiver's backing array.
type Selection struct {
	ids []int
}

// NewSelection creates a Selection from ids, ignoring repeats.
func NewSelection(ids ...int) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// IDs returns a copy of the selected IDs in insertion order.
func (s Selection) IDs() []int {
	ids := make([]int, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// Contains reports whether id is selected.
func (s Selection) Contains(id int) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of selected IDs.
func (s Selection) Len() int {
	return len(s.ids)
}

// Toggle removes id if selected, otherwise appends it.
func (s Selection) Toggle(id int) Selection {
	if s.Contains(id) {
		return s.Remove(id)
	}
	ids := make([]int, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return Selection{ids: append(ids, id)}
}

// Remove drops id from the selection. Unknown IDs are ignored.
func (s Selection) Remove(id int) Selection {
	idx := slices.Index(s.ids, id)
	if idx < 0 {
		return s
	}
	ids := make([]int, 0, len(s.ids)-1)
	ids = append(ids, s.ids[:idx]...)
	ids = append(ids, s.ids[idx+1:]...)
	return Selection{ids: ids}
}
