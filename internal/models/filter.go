package models

import "fmt"

// SortField names a field links can be ordered by.
type SortField string

const (
	SortTitle      SortField = "title"
	SortCreatedAt  SortField = "created_at"
	SortUpdatedAt  SortField = "updated_at"
	SortClickCount SortField = "click_count"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort represents how a link view is ordered
type Sort struct {
	Field SortField `json:"field" yaml:"field"`
	Order SortOrder `json:"order" yaml:"order"`
}

// DefaultSort orders links by most recently updated first.
func DefaultSort() Sort {
	return Sort{Field: SortUpdatedAt, Order: Desc}
}

// ParseSort builds a Sort from user input. Empty values fall back to the
// defaults.
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort()
	if field != "" {
		s.Field = SortField(field)
	}
	if order != "" {
		s.Order = SortOrder(order)
	}

	switch s.Field {
	case SortTitle, SortCreatedAt, SortUpdatedAt, SortClickCount:
	default:
		return Sort{}, fmt.Errorf("invalid sort field %q (expected title, created_at, updated_at or click_count)", field)
	}
	if s.Order != Asc && s.Order != Desc {
		return Sort{}, fmt.Errorf("invalid sort order %q (expected asc or desc)", order)
	}
	return s, nil
}

// Filters represents the link filter state. The zero value matches every link.
type Filters struct {
	FolderID *int     `json:"folder_id,omitempty" yaml:"folder_id,omitempty"`
	TagIDs   []int    `json:"tag_ids,omitempty" yaml:"tag_ids,omitempty"`
	Starred  bool     `json:"starred,omitempty" yaml:"starred,omitempty"`
	Pinned   bool     `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	LinkType LinkType `json:"link_type,omitempty" yaml:"link_type,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.FolderID == nil && len(f.TagIDs) == 0 && !f.Starred && !f.Pinned && f.LinkType == ""
}

// Clone returns a copy that shares no memory with f.
func (f Filters) Clone() Filters {
	out := f
	if f.FolderID != nil {
		id := *f.FolderID
		out.FolderID = &id
	}
	if f.TagIDs != nil {
		out.TagIDs = append([]int(nil), f.TagIDs...)
	}
	return out
}
