// Package selection tracks which items of an ordered list are selected,
// following the usual desktop click conventions: a plain click replaces the
// selection, ctrl or cmd toggles, and shift extends a range from the last
// clicked row.
//
// The model never resynchronizes itself. Callers that shrink or reorder the
// backing list must call Sync so the selection stays a subset of it.
package selection

// Modifiers are the keys held during a click.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Model is the selection state over a list of ids.
type Model[ID comparable] struct {
	items    []ID
	index    map[ID]int
	selected map[ID]struct{}

	anchor    int
	hasAnchor bool
}

// New returns an empty selection over items.
func New[ID comparable](items []ID) *Model[ID] {
	m := &Model[ID]{selected: make(map[ID]struct{})}
	m.setItems(items)
	return m
}

func (m *Model[ID]) setItems(items []ID) {
	m.items = append([]ID(nil), items...)
	m.index = make(map[ID]int, len(items))
	for i, id := range m.items {
		if _, dup := m.index[id]; !dup {
			m.index[id] = i
		}
	}
}

// Sync replaces the backing list. Selected ids that are no longer present are
// dropped, and the anchor is cleared if it falls outside the new list.
func (m *Model[ID]) Sync(items []ID) {
	m.setItems(items)
	for id := range m.selected {
		if _, ok := m.index[id]; !ok {
			delete(m.selected, id)
		}
	}
	if m.hasAnchor && m.anchor >= len(m.items) {
		m.hasAnchor = false
	}
}

// Toggle flips the membership of id. Ids not in the list are ignored.
func (m *Model[ID]) Toggle(id ID) {
	if _, ok := m.index[id]; !ok {
		return
	}
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		return
	}
	m.selected[id] = struct{}{}
}

// Select adds id to the selection and makes it the range anchor.
func (m *Model[ID]) Select(id ID) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	m.selected[id] = struct{}{}
	m.anchor, m.hasAnchor = i, true
}

// Deselect removes id from the selection.
func (m *Model[ID]) Deselect(id ID) {
	delete(m.selected, id)
}

// SelectRange adds every id between the two indexes, inclusive, to the
// selection. Indexes are clamped to the list bounds and may be given in
// either order.
func (m *Model[ID]) SelectRange(start, end int) {
	if start > end {
		start, end = end, start
	}
	start = max(start, 0)
	end = min(end, len(m.items)-1)
	for i := start; i <= end; i++ {
		m.selected[m.items[i]] = struct{}{}
	}
}

// HandleItemClick applies a click on the row at index holding id.
func (m *Model[ID]) HandleItemClick(id ID, index int, mods Modifiers) {
	if _, ok := m.index[id]; !ok {
		return
	}

	switch {
	case mods.Shift && m.hasAnchor:
		m.SelectRange(m.anchor, index)
	case mods.Ctrl || mods.Meta:
		m.Toggle(id)
	default:
		clear(m.selected)
		m.selected[id] = struct{}{}
	}

	m.anchor, m.hasAnchor = index, true
}

// SelectAll selects every id in the list.
func (m *Model[ID]) SelectAll() {
	for _, id := range m.items {
		m.selected[id] = struct{}{}
	}
}

// Clear empties the selection and forgets the anchor.
func (m *Model[ID]) Clear() {
	clear(m.selected)
	m.hasAnchor = false
}

// IsSelected reports whether id is selected.
func (m *Model[ID]) IsSelected(id ID) bool {
	_, ok := m.selected[id]
	return ok
}

// IsAllSelected reports whether the list is non-empty and fully selected.
func (m *Model[ID]) IsAllSelected() bool {
	return len(m.index) > 0 && len(m.selected) == len(m.index)
}

// IsSomeSelected reports a partial selection.
func (m *Model[ID]) IsSomeSelected() bool {
	return len(m.selected) > 0 && len(m.selected) < len(m.index)
}

// Count returns the number of selected ids.
func (m *Model[ID]) Count() int {
	return len(m.selected)
}

// SelectedIDs returns the selected ids in list order.
func (m *Model[ID]) SelectedIDs() []ID {
	out := make([]ID, 0, len(m.selected))
	for i, id := range m.items {
		if m.index[id] != i {
			continue
		}
		if _, ok := m.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Anchor returns the index of the last explicit selection, if any.
func (m *Model[ID]) Anchor() (int, bool) {
	return m.anchor, m.hasAnchor
}
