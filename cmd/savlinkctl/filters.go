package main

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/rodstewart/savlink-cli/internal/config"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/store"
	"github.com/spf13/cobra"
)

// viewFlags are the filter flags shared by the commands that work on the
// link view.
type viewFlags struct {
	query    string
	folder   string
	tags     []string
	starred  bool
	pinned   bool
	linkType string
	sort     string
	order    string
	archived bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.query, "search", "q", "", "Search title, URL and notes")
	fl.StringVar(&f.folder, "folder", "", "Only links filed in this folder ID")
	fl.StringSliceVarP(&f.tags, "tag", "T", nil, "Only links with any of these tags (name or ID, repeatable)")
	fl.BoolVar(&f.starred, "starred", false, "Only starred links")
	fl.BoolVar(&f.pinned, "pinned", false, "Only pinned links")
	fl.StringVar(&f.linkType, "type", "", "Only links of this type: saved, shortened")
	fl.StringVar(&f.sort, "sort", "", "Sort by: title, created_at, updated_at, click_count")
	fl.StringVar(&f.order, "order", "", "Sort order: asc, desc")
	fl.BoolVarP(&f.archived, "archived", "a", false, "Include archived links")
}

// apply sets the store's filters, search text and sort from the flags.
func (f *viewFlags) apply(s *store.Store, cfg *config.Config) error {
	if f.folder != "" {
		id, err := parseID(f.folder, "folder")
		if err != nil {
			return err
		}
		if _, ok := s.Folder(id); !ok {
			return fmt.Errorf("folder with ID %d not found", id)
		}
		s.SetFolderFilter(&id)
	}

	if len(f.tags) > 0 {
		ids, err := resolveTagFilter(s, f.tags)
		if err != nil {
			return err
		}
		s.SetTagFilter(ids)
	}

	s.SetStarredFilter(f.starred)
	s.SetPinnedFilter(f.pinned)

	if f.linkType != "" {
		t := models.LinkType(f.linkType)
		if !t.Valid() {
			return fmt.Errorf("invalid link type: %s (use 'saved' or 'shortened')", f.linkType)
		}
		s.SetLinkTypeFilter(t)
	}

	s.SetSearchQuery(f.query)

	if f.sort != "" || f.order != "" {
		by, err := models.ParseSort(cmp.Or(f.sort, cfg.DefaultSort), cmp.Or(f.order, cfg.DefaultOrder))
		if err != nil {
			return err
		}
		s.SetSort(by)
	}
	return nil
}

// view returns the sorted, filtered links, leaving out archived ones unless
// --archived was given.
func (f *viewFlags) view(s *store.Store) []models.Link {
	links := s.View()
	if f.archived {
		return links
	}
	return slices.DeleteFunc(links, func(l models.Link) bool { return l.Archived })
}

// resolveTagFilter accepts tag names or numeric ids.
func resolveTagFilter(s *store.Store, refs []string) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		if id, err := strconv.Atoi(ref); err == nil {
			if _, ok := s.Tag(id); ok {
				ids = append(ids, id)
				continue
			}
		}
		t, ok := s.TagByName(ref)
		if !ok {
			return nil, fmt.Errorf("unknown tag: %s", ref)
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}
