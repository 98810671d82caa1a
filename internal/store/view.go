package store

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rodstewart/savlink-cli/internal/models"
	"golang.org/x/text/cases"
)

// RecentWindow is how far back Stats counts a link as recent.
const RecentWindow = 7 * 24 * time.Hour

// Stats are the counters shown on the dashboard.
type Stats struct {
	All        int `json:"all" yaml:"all"`
	Recent     int `json:"recent" yaml:"recent"`
	Starred    int `json:"starred" yaml:"starred"`
	Pinned     int `json:"pinned" yaml:"pinned"`
	Archived   int `json:"archived" yaml:"archived"`
	Unassigned int `json:"unassigned" yaml:"unassigned"`
}

// Filters returns the active filters.
func (s *Store) Filters() models.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// SetFilters replaces the active filters.
func (s *Store) SetFilters(f models.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f.Clone()
}

// SetFolderFilter limits the view to one folder, or lifts the limit when id
// is nil.
func (s *Store) SetFolderFilter(id *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.FolderID = nil
	if id != nil {
		v := *id
		s.filters.FolderID = &v
	}
}

// SetTagFilter limits the view to links carrying any of ids.
func (s *Store) SetTagFilter(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.TagIDs = slices.Clone(ids)
}

// SetStarredFilter toggles the starred-only filter.
func (s *Store) SetStarredFilter(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Starred = on
}

// SetPinnedFilter toggles the pinned-only filter.
func (s *Store) SetPinnedFilter(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Pinned = on
}

// SetLinkTypeFilter limits the view to one link type; "" lifts the limit.
func (s *Store) SetLinkTypeFilter(t models.LinkType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.LinkType = t
}

// ClearFilters restores the default filters and empties the search.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = models.Filters{}
	s.query = ""
}

// SearchQuery returns the active search text.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetSearchQuery sets the search text.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Sort returns the active sort.
func (s *Store) Sort() models.Sort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// SetSort sets the ordering used by View.
func (s *Store) SetSort(by models.Sort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = by
}

// HasActiveFilters reports whether any filter or search text is set.
func (s *Store) HasActiveFilters() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.filters.IsZero() || s.query != ""
}

// FilteredLinks returns the links matching the search text and filters, in
// store order.
func (s *Store) FilteredLinks() []models.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterLinks(s.links, s.filters, s.query)
}

// View returns FilteredLinks ordered by the active sort.
func (s *Store) View() []models.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := FilterLinks(s.links, s.filters, s.query)
	SortLinks(out, s.sort)
	return out
}

// FilterLinks applies the search text, then the folder, tag, flag and type
// filters. Every active criterion must hold. The result is a new slice.
func FilterLinks(links []models.Link, f models.Filters, query string) []models.Link {
	fold := cases.Fold()
	q := fold.String(query)

	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if q != "" && !matchesQuery(fold, l, q) {
			continue
		}
		if f.FolderID != nil && (l.FolderID == nil || *l.FolderID != *f.FolderID) {
			continue
		}
		if len(f.TagIDs) > 0 && !slices.ContainsFunc(f.TagIDs, l.HasTag) {
			continue
		}
		if f.Starred && !l.Starred {
			continue
		}
		if f.Pinned && !l.Pinned {
			continue
		}
		if f.LinkType != "" && l.LinkType != f.LinkType {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesQuery(fold cases.Caser, l models.Link, q string) bool {
	return strings.Contains(fold.String(l.Title), q) ||
		strings.Contains(fold.String(l.OriginalURL), q) ||
		strings.Contains(fold.String(l.Notes), q)
}

// SortLinks orders links in place. The sort is stable and links without a
// timestamp sort as the oldest.
func SortLinks(links []models.Link, s models.Sort) {
	fold := cases.Fold()
	less := func(a, b models.Link) int {
		switch s.Field {
		case models.SortTitle:
			return strings.Compare(fold.String(a.Title), fold.String(b.Title))
		case models.SortCreatedAt:
			return compareTime(a.CreatedAt, b.CreatedAt)
		case models.SortClickCount:
			return a.ClickCount - b.ClickCount
		default:
			return compareTime(a.UpdatedAt, b.UpdatedAt)
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		c := less(links[i], links[j])
		if s.Order == models.Asc {
			return c < 0
		}
		return c > 0
	})
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// Stats counts links for the dashboard. All, Recent and Unassigned leave out
// archived links.
func (s *Store) Stats(now time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	cutoff := now.Add(-RecentWindow)
	for _, l := range s.links {
		if l.Starred {
			st.Starred++
		}
		if l.Pinned {
			st.Pinned++
		}
		if l.Archived {
			st.Archived++
			continue
		}
		st.All++
		if l.CreatedAt != nil && !l.CreatedAt.Before(cutoff) {
			st.Recent++
		}
		if l.FolderID == nil {
			st.Unassigned++
		}
	}
	return st
}
