package models

import (
	"time"

	"github.com/rodstewart/savlink-cli/internal/validation"
)

// DefaultFolderIcon is used when a folder has no icon of its own.
const DefaultFolderIcon = "📁"

// Folder represents a Savlink folder. The hierarchy is expressed only through
// ParentID; see the foldertree package for the derived tree.
type Folder struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Color       *string    `json:"color" yaml:"color,omitempty"`
	Icon        string     `json:"icon" yaml:"icon"`
	Position    int        `json:"position" yaml:"position"`
	ParentID    *int       `json:"parent_id" yaml:"parent_id,omitempty"`
	Pinned      bool       `json:"pinned" yaml:"pinned"`
	SoftDeleted bool       `json:"soft_deleted" yaml:"soft_deleted"`
	CreatedAt   *time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
	UserID      *string    `json:"user_id" yaml:"user_id,omitempty"`

	LinkCount      int `json:"link_count" yaml:"link_count"`
	TotalLinkCount int `json:"total_link_count" yaml:"total_link_count"`
}

// RawFolder is a folder as it arrives from the API.
type RawFolder struct {
	ID             *int    `json:"id"`
	Name           *string `json:"name"`
	Color          *string `json:"color"`
	Icon           *string `json:"icon"`
	Position       *int    `json:"position"`
	ParentID       *int    `json:"parent_id"`
	Pinned         *bool   `json:"pinned"`
	SoftDeleted    *bool   `json:"soft_deleted"`
	CreatedAt      *string `json:"created_at"`
	UpdatedAt      *string `json:"updated_at"`
	UserID         *string `json:"user_id"`
	LinkCount      *int    `json:"link_count"`
	TotalLinkCount *int    `json:"total_link_count"`
}

// FolderCandidate holds the fields ValidateFolder checks.
type FolderCandidate struct {
	Name  string
	Color string
}

// FolderCreate represents the request to create a folder
type FolderCreate struct {
	Name     string  `json:"name"`
	Color    *string `json:"color,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	ParentID *int    `json:"parent_id,omitempty"`
	Position int     `json:"position,omitempty"`
}

// FolderPatch represents a partial folder update
type FolderPatch struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Position *int    `json:"position,omitempty"`
	Pinned   *bool   `json:"pinned,omitempty"`
	ParentID **int   `json:"parent_id,omitempty"`
}

// NormalizeFolder fills every absent field of raw with its default.
func NormalizeFolder(raw RawFolder) Folder {
	f := Folder{
		ID:             derefInt(raw.ID),
		Name:           derefString(raw.Name),
		Color:          nonEmpty(raw.Color),
		Icon:           derefString(raw.Icon),
		Position:       derefInt(raw.Position),
		ParentID:       raw.ParentID,
		Pinned:         derefBool(raw.Pinned),
		SoftDeleted:    derefBool(raw.SoftDeleted),
		CreatedAt:      parseTime(raw.CreatedAt),
		UpdatedAt:      parseTime(raw.UpdatedAt),
		UserID:         raw.UserID,
		LinkCount:      derefInt(raw.LinkCount),
		TotalLinkCount: derefInt(raw.TotalLinkCount),
	}
	if f.Icon == "" {
		f.Icon = DefaultFolderIcon
	}
	return f
}

// ValidateFolder checks a folder candidate.
func ValidateFolder(c FolderCandidate) ValidationResult {
	return newResult(validate.Collect([]validation.Rule{
		{Value: c.Name, Tag: "notblank", Message: "Folder name is required"},
		{Value: c.Name, Tag: "max=255", Message: "Folder name is too long (max 255 characters)"},
		{Value: c.Color, Tag: "omitempty,rgbhex", Message: "Invalid color format"},
	}))
}

// Candidate projects f back to the fields ValidateFolder checks.
func (f Folder) Candidate() FolderCandidate {
	return FolderCandidate{Name: f.Name, Color: derefString(f.Color)}
}

// DisplayColor returns the folder color or the default grey.
func (f Folder) DisplayColor() string {
	if f.Color == nil || *f.Color == "" {
		return DefaultColor
	}
	return *f.Color
}

// IsRoot reports whether the folder has no parent.
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

// Apply returns a copy of f with the non-nil patch fields applied.
func (f Folder) Apply(p FolderPatch) Folder {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Color != nil {
		f.Color = nonEmpty(p.Color)
	}
	if p.Icon != nil {
		f.Icon = *p.Icon
	}
	if p.Position != nil {
		f.Position = *p.Position
	}
	if p.Pinned != nil {
		f.Pinned = *p.Pinned
	}
	if p.ParentID != nil {
		f.ParentID = *p.ParentID
	}
	return f
}
