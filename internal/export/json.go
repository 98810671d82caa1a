package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rodstewart/savlink-cli/internal/foldertree"
	"github.com/rodstewart/savlink-cli/internal/models"
)

// ExportLink represents a link in the export format
type ExportLink struct {
	ID        int             `json:"id" yaml:"id"`
	URL       string          `json:"url" yaml:"url"`
	Title     string          `json:"title" yaml:"title"`
	Notes     string          `json:"notes" yaml:"notes,omitempty"`
	LinkType  models.LinkType `json:"link_type" yaml:"link_type"`
	Slug      string          `json:"slug,omitempty" yaml:"slug,omitempty"`
	Tags      []string        `json:"tags" yaml:"tags"`
	Folder    string          `json:"folder,omitempty" yaml:"folder,omitempty"`
	Starred   bool            `json:"starred" yaml:"starred"`
	Pinned    bool            `json:"pinned" yaml:"pinned"`
	Archived  bool            `json:"archived" yaml:"archived"`
	CreatedAt *time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ExportData represents the complete export data structure
type ExportData struct {
	Version    string       `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Source     string       `json:"source" yaml:"source"`
	Links      []ExportLink `json:"links" yaml:"links"`
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	IncludeArchived bool
	// Folders resolves folder names and drives HTML nesting.
	Folders []models.Folder
}

const (
	formatVersion = "1"
	sourceName    = "savlink"
)

// selectLinks drops archived links unless they were asked for.
func selectLinks(links []models.Link, options ExportOptions) []models.Link {
	if options.IncludeArchived {
		return links
	}
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if !l.Archived {
			out = append(out, l)
		}
	}
	return out
}

// folderPaths maps every folder id to its slash-joined path from the root.
func folderPaths(folders []models.Folder) map[int]string {
	paths := make(map[int]string, len(folders))
	for _, f := range folders {
		var names []string
		for _, p := range foldertree.Path(folders, f.ID) {
			names = append(names, p.Name)
		}
		paths[f.ID] = strings.Join(names, "/")
	}
	return paths
}

// convertToExportFormat converts internal link models to export format
func convertToExportFormat(links []models.Link, folders []models.Folder) []ExportLink {
	paths := folderPaths(folders)
	exported := make([]ExportLink, len(links))
	for i, l := range links {
		e := ExportLink{
			ID:        l.ID,
			URL:       l.OriginalURL,
			Title:     l.Title,
			Notes:     l.Notes,
			LinkType:  l.LinkType,
			Tags:      l.TagNames(),
			Starred:   l.Starred,
			Pinned:    l.Pinned,
			Archived:  l.Archived,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		}
		if l.Slug != nil {
			e.Slug = *l.Slug
		}
		if l.FolderID != nil {
			e.Folder = paths[*l.FolderID]
		}
		exported[i] = e
	}
	return exported
}

func newExportData(links []models.Link, options ExportOptions) ExportData {
	return ExportData{
		Version:    formatVersion,
		ExportedAt: time.Now().UTC(),
		Source:     sourceName,
		Links:      convertToExportFormat(selectLinks(links, options), options.Folders),
	}
}

// ExportJSON exports links to JSON format
func ExportJSON(writer io.Writer, links []models.Link, options ExportOptions) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(newExportData(links, options)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
