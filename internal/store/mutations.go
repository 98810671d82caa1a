package store

import (
	"fmt"
	"slices"

	"github.com/rodstewart/savlink-cli/internal/foldertree"
	"github.com/rodstewart/savlink-cli/internal/models"
)

// SetLinks replaces the link list.
func (s *Store) SetLinks(links []models.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = slices.Clone(links)
}

// AppendLinks adds a further page of links to the end of the list.
func (s *Store) AppendLinks(links []models.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, links...)
}

// SetFolders replaces the folder list.
func (s *Store) SetFolders(folders []models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = slices.Clone(folders)
}

// SetTags replaces the tag list.
func (s *Store) SetTags(tags []models.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = slices.Clone(tags)
}

// AddLink puts a new link at the front of the list.
func (s *Store) AddLink(l models.Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = slices.Insert(s.links, 0, l)
}

// UpdateLink merges patch into the link with the given id.
func (s *Store) UpdateLink(id int, patch models.LinkPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.linkIndex(id)
	if i < 0 {
		return false
	}
	s.links[i] = s.links[i].Apply(patch)
	return true
}

// ReplaceLink swaps in the server's copy of a link.
func (s *Store) ReplaceLink(l models.Link) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.linkIndex(l.ID)
	if i < 0 {
		return false
	}
	s.links[i] = l
	return true
}

// RemoveLink deletes the link with the given id.
func (s *Store) RemoveLink(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.linkIndex(id)
	if i < 0 {
		return false
	}
	s.links = slices.Delete(s.links, i, i+1)
	return true
}

// AddFolder appends a folder.
func (s *Store) AddFolder(f models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, f)
}

// UpdateFolder merges patch into the folder with the given id. A patch that
// changes the parent goes through the same cycle check as MoveFolder and is
// refused, returning false, if it fails.
func (s *Store) UpdateFolder(id int, patch models.FolderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.folderIndex(id)
	if i < 0 {
		return false
	}
	if patch.ParentID != nil && *patch.ParentID != nil && !foldertree.CanMove(s.folders, id, **patch.ParentID) {
		return false
	}
	s.folders[i] = s.folders[i].Apply(patch)
	return true
}

// RemoveFolder deletes the folder with the given id. Links filed in it and
// its child folders are left pointing at the missing id; the tree builder
// treats such children as roots.
func (s *Store) RemoveFolder(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.folderIndex(id)
	if i < 0 {
		return false
	}
	s.folders = slices.Delete(s.folders, i, i+1)
	return true
}

// SoftDeleteFolder marks a folder deleted without removing it.
func (s *Store) SoftDeleteFolder(id int) bool {
	return s.setSoftDeleted(id, true)
}

// RestoreFolder clears the soft-delete mark.
func (s *Store) RestoreFolder(id int) bool {
	return s.setSoftDeleted(id, false)
}

func (s *Store) setSoftDeleted(id int, deleted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.folderIndex(id)
	if i < 0 {
		return false
	}
	s.folders[i].SoftDeleted = deleted
	return true
}

// MoveFolder re-parents a folder. A nil parentID moves it to the root. The
// move is checked against the current folder list before anything changes.
func (s *Store) MoveFolder(id int, parentID *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.folderIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrFolderNotFound, id)
	}
	if parentID != nil {
		if s.folderIndex(*parentID) < 0 {
			return fmt.Errorf("%w: %d", ErrFolderNotFound, *parentID)
		}
		if !foldertree.CanMove(s.folders, id, *parentID) {
			return ErrFolderCycle
		}
		p := *parentID
		parentID = &p
	}

	s.folders[i].ParentID = parentID
	return nil
}

// AddTag appends a tag.
func (s *Store) AddTag(t models.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, t)
}

// UpdateTag merges patch into the tag with the given id.
func (s *Store) UpdateTag(id int, patch models.TagPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.tagIndex(id)
	if i < 0 {
		return false
	}
	s.tags[i] = s.tags[i].Apply(patch)
	return true
}

// RemoveTag deletes the tag with the given id and strips it from every link.
func (s *Store) RemoveTag(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.tagIndex(id)
	if i < 0 {
		return false
	}
	s.tags = slices.Delete(s.tags, i, i+1)
	for j := range s.links {
		if s.links[j].HasTag(id) {
			s.links[j].Tags = slices.DeleteFunc(slices.Clone(s.links[j].Tags), func(t models.TagRef) bool {
				return t.ID == id
			})
		}
	}
	return true
}
