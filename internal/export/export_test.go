package export

import (
	"time"

	"github.com/rodstewart/savlink-cli/internal/models"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testFolders() []models.Folder {
	return []models.Folder{
		{ID: 1, Name: "Work", Position: 0},
		{ID: 2, Name: "Go & Rust", ParentID: intPtr(1), Position: 0},
		{ID: 3, Name: "Trash", SoftDeleted: true},
	}
}

func testLinks() []models.Link {
	created := testTime
	return []models.Link{
		{
			ID:          1,
			OriginalURL: "https://example.com",
			Title:       "Example",
			Notes:       "Test link",
			LinkType:    models.LinkSaved,
			IsActive:    true,
			Starred:     true,
			Tags:        []models.TagRef{{ID: 1, Name: "tag1"}, {ID: 2, Name: "tag2"}},
			CreatedAt:   &created,
		},
		{
			ID:          2,
			OriginalURL: "https://go.dev/doc?a=1&b=2",
			Title:       "Go <docs>",
			LinkType:    models.LinkShortened,
			Slug:        strPtr("go-doc"),
			IsActive:    true,
			FolderID:    intPtr(2),
			Tags:        []models.TagRef{},
			CreatedAt:   &created,
		},
		{
			ID:          3,
			OriginalURL: "https://old.example.com",
			Title:       "Old",
			LinkType:    models.LinkSaved,
			Archived:    true,
			FolderID:    intPtr(3),
			Tags:        []models.TagRef{},
		},
	}
}
