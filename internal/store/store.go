// Package store holds the authoritative in-memory collection of links,
// folders and tags together with the active filter, search and sort
// criteria, and derives filtered views from them on every read.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rodstewart/savlink-cli/internal/models"
)

var (
	// ErrFolderNotFound is returned when a folder id is not in the store.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderCycle is returned when a move would put a folder inside
	// itself or one of its descendants.
	ErrFolderCycle = errors.New("folder cannot be moved into itself or one of its descendants")
)

// Source supplies the raw records Load normalizes. *api.Client implements it.
type Source interface {
	FetchAllLinks() ([]models.RawLink, error)
	FetchAllFolders() ([]models.RawFolder, error)
	FetchAllTags() ([]models.RawTag, error)
}

// Store owns the collection. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	links   []models.Link
	folders []models.Folder
	tags    []models.Tag

	filters models.Filters
	query   string
	sort    models.Sort
}

// New returns an empty store with default filters and sort.
func New() *Store {
	return &Store{sort: models.DefaultSort()}
}

// Load replaces the whole collection with the records from src. The store is
// left untouched if any fetch fails.
func (s *Store) Load(src Source) error {
	rawLinks, err := src.FetchAllLinks()
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}
	rawFolders, err := src.FetchAllFolders()
	if err != nil {
		return fmt.Errorf("failed to load folders: %w", err)
	}
	rawTags, err := src.FetchAllTags()
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}

	links := make([]models.Link, 0, len(rawLinks))
	for _, r := range rawLinks {
		links = append(links, models.NormalizeLink(r))
	}
	folders := make([]models.Folder, 0, len(rawFolders))
	for _, r := range rawFolders {
		folders = append(folders, models.NormalizeFolder(r))
	}
	tags := make([]models.Tag, 0, len(rawTags))
	for _, r := range rawTags {
		tags = append(tags, models.NormalizeTag(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.links, s.folders, s.tags = links, folders, tags
	return nil
}

// Links returns a copy of every link in store order.
func (s *Store) Links() []models.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.links)
}

// Folders returns a copy of every folder, soft-deleted ones included.
func (s *Store) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.folders)
}

// VisibleFolders returns the folders that are not soft-deleted.
func (s *Store) VisibleFolders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if !f.SoftDeleted {
			out = append(out, f)
		}
	}
	return out
}

// Tags returns a copy of every tag.
func (s *Store) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tags)
}

// Link returns the link with the given id.
func (s *Store) Link(id int) (models.Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.linkIndex(id); i >= 0 {
		return s.links[i], true
	}
	return models.Link{}, false
}

// Folder returns the folder with the given id.
func (s *Store) Folder(id int) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.folderIndex(id); i >= 0 {
		return s.folders[i], true
	}
	return models.Folder{}, false
}

// Tag returns the tag with the given id.
func (s *Store) Tag(id int) (models.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.tagIndex(id); i >= 0 {
		return s.tags[i], true
	}
	return models.Tag{}, false
}

// TagByName finds a tag by exact name or by its normalized form.
func (s *Store) TagByName(name string) (models.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := models.NormalizeTagName(name)
	for _, t := range s.tags {
		if t.Name == name || models.NormalizeTagName(t.Name) == want {
			return t, true
		}
	}
	return models.Tag{}, false
}

// Reset empties the collection and restores default filters, search and sort.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links, s.folders, s.tags = nil, nil, nil
	s.filters = models.Filters{}
	s.query = ""
	s.sort = models.DefaultSort()
}

func (s *Store) linkIndex(id int) int {
	return slices.IndexFunc(s.links, func(l models.Link) bool { return l.ID == id })
}

func (s *Store) folderIndex(id int) int {
	return slices.IndexFunc(s.folders, func(f models.Folder) bool { return f.ID == id })
}

func (s *Store) tagIndex(id int) int {
	return slices.IndexFunc(s.tags, func(t models.Tag) bool { return t.ID == id })
}
