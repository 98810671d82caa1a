// Package models defines the data models used in the Savlink application.
package models

import (
	"time"

	"github.com/rodstewart/savlink-cli/internal/validation"
)

// LinkType distinguishes plain bookmarks from short links.
type LinkType string

const (
	LinkSaved     LinkType = "saved"
	LinkShortened LinkType = "shortened"
)

// Valid reports whether t is one of the known link types.
func (t LinkType) Valid() bool {
	return t == LinkSaved || t == LinkShortened
}

// Label returns the human-readable name of the link type.
func (t LinkType) Label() string {
	switch t {
	case LinkSaved:
		return "Saved Link"
	case LinkShortened:
		return "Short Link"
	default:
		return "Unknown"
	}
}

// TagRef is the tag reference embedded in a link.
type TagRef struct {
	ID    int     `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Color *string `json:"color" yaml:"color,omitempty"`
}

// Link represents a saved or shortened Savlink link
type Link struct {
	ID             int      `json:"id" yaml:"id"`
	OriginalURL    string   `json:"original_url" yaml:"original_url"`
	Title          string   `json:"title" yaml:"title"`
	Notes          string   `json:"notes" yaml:"notes"`
	DisplayURL     string   `json:"display_url" yaml:"display_url"`
	LinkType       LinkType `json:"link_type" yaml:"link_type"`
	IsActive       bool     `json:"is_active" yaml:"is_active"`
	Pinned         bool     `json:"pinned" yaml:"pinned"`
	Starred        bool     `json:"starred" yaml:"starred"`
	Archived       bool     `json:"archived" yaml:"archived"`
	FrequentlyUsed bool     `json:"frequently_used" yaml:"frequently_used"`

	Slug         *string           `json:"slug" yaml:"slug,omitempty"`
	ShortURL     *string           `json:"short_url" yaml:"short_url,omitempty"`
	PasswordHash *string           `json:"password_hash,omitempty" yaml:"-"`
	ClickLimit   *int              `json:"click_limit" yaml:"click_limit,omitempty"`
	UTMParams    map[string]string `json:"utm_params" yaml:"utm_params,omitempty"`
	ClickCount   int               `json:"click_count" yaml:"click_count"`

	CreatedAt  *time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
	PinnedAt   *time.Time `json:"pinned_at" yaml:"pinned_at,omitempty"`
	ArchivedAt *time.Time `json:"archived_at" yaml:"archived_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at" yaml:"expires_at,omitempty"`

	FolderID *int           `json:"folder_id" yaml:"folder_id,omitempty"`
	Tags     []TagRef       `json:"tags" yaml:"tags"`
	UserID   *string        `json:"user_id" yaml:"user_id,omitempty"`
	Metadata map[string]any `json:"metadata" yaml:"metadata,omitempty"`
}

// RawLink is a link as it arrives from the API. Absent fields stay nil.
type RawLink struct {
	ID             *int              `json:"id"`
	OriginalURL    *string           `json:"original_url"`
	Title          *string           `json:"title"`
	Notes          *string           `json:"notes"`
	DisplayURL     *string           `json:"display_url"`
	LinkType       *string           `json:"link_type"`
	IsActive       *bool             `json:"is_active"`
	Pinned         *bool             `json:"pinned"`
	Starred        *bool             `json:"starred"`
	Archived       *bool             `json:"archived"`
	FrequentlyUsed *bool             `json:"frequently_used"`
	Slug           *string           `json:"slug"`
	ShortURL       *string           `json:"short_url"`
	PasswordHash   *string           `json:"password_hash"`
	ClickLimit     *int              `json:"click_limit"`
	UTMParams      map[string]string `json:"utm_params"`
	ClickCount     *int              `json:"click_count"`
	CreatedAt      *string           `json:"created_at"`
	UpdatedAt      *string           `json:"updated_at"`
	PinnedAt       *string           `json:"pinned_at"`
	ArchivedAt     *string           `json:"archived_at"`
	ExpiresAt      *string           `json:"expires_at"`
	FolderID       *int              `json:"folder_id"`
	Tags           []TagRef          `json:"tags"`
	UserID         *string           `json:"user_id"`
	Metadata       map[string]any    `json:"metadata_"`
}

// LinkCandidate holds the fields ValidateLink checks.
type LinkCandidate struct {
	OriginalURL string
	LinkType    string
	Title       string
	Notes       string
}

// LinkCreate represents the request to create a link
type LinkCreate struct {
	OriginalURL string            `json:"original_url"`
	Title       string            `json:"title,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	LinkType    LinkType          `json:"link_type"`
	Slug        string            `json:"slug,omitempty"`
	FolderID    *int              `json:"folder_id,omitempty"`
	TagIDs      []int             `json:"tag_ids,omitempty"`
	UTMParams   map[string]string `json:"utm_params,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

// LinkPatch represents a partial link update. Nil fields are left unchanged.
type LinkPatch struct {
	OriginalURL *string    `json:"original_url,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Pinned      *bool      `json:"pinned,omitempty"`
	Starred     *bool      `json:"starred,omitempty"`
	Archived    *bool      `json:"archived,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	FolderID    **int      `json:"folder_id,omitempty"`
	Tags        *[]TagRef  `json:"-"`
	TagIDs      *[]int     `json:"tag_ids,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	UpdatedAt   *time.Time `json:"-"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LinkPatch) IsEmpty() bool {
	return p.OriginalURL == nil && p.Title == nil && p.Notes == nil &&
		p.Pinned == nil && p.Starred == nil && p.Archived == nil &&
		p.IsActive == nil && p.FolderID == nil && p.Tags == nil &&
		p.TagIDs == nil && p.ExpiresAt == nil
}

var validate = validation.New()

// NormalizeLink fills every absent field of raw with its default.
// Short-link fields are dropped for saved links.
func NormalizeLink(raw RawLink) Link {
	l := Link{
		ID:             derefInt(raw.ID),
		OriginalURL:    derefString(raw.OriginalURL),
		Title:          derefString(raw.Title),
		Notes:          derefString(raw.Notes),
		DisplayURL:     derefString(raw.DisplayURL),
		LinkType:       LinkType(derefString(raw.LinkType)),
		IsActive:       true,
		Pinned:         derefBool(raw.Pinned),
		Starred:        derefBool(raw.Starred),
		Archived:       derefBool(raw.Archived),
		FrequentlyUsed: derefBool(raw.FrequentlyUsed),
		ClickCount:     derefInt(raw.ClickCount),
		CreatedAt:      parseTime(raw.CreatedAt),
		UpdatedAt:      parseTime(raw.UpdatedAt),
		PinnedAt:       parseTime(raw.PinnedAt),
		ArchivedAt:     parseTime(raw.ArchivedAt),
		ExpiresAt:      parseTime(raw.ExpiresAt),
		FolderID:       raw.FolderID,
		Tags:           raw.Tags,
		UserID:         raw.UserID,
		Metadata:       raw.Metadata,
	}

	if l.LinkType == "" {
		l.LinkType = LinkSaved
	}
	if raw.IsActive != nil {
		l.IsActive = *raw.IsActive
	}
	if l.Tags == nil {
		l.Tags = []TagRef{}
	}
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}

	if l.LinkType == LinkShortened {
		l.Slug = raw.Slug
		l.ShortURL = raw.ShortURL
		l.PasswordHash = raw.PasswordHash
		l.ClickLimit = raw.ClickLimit
		l.UTMParams = raw.UTMParams
	}

	return l
}

// ValidateLink checks a link candidate. All failing rules are reported.
func ValidateLink(c LinkCandidate) ValidationResult {
	return newResult(validate.Collect([]validation.Rule{
		{Value: c.OriginalURL, Tag: "required", Message: "URL is required"},
		{Value: c.OriginalURL, Tag: "omitempty,absurl", Message: "URL format is invalid"},
		{Value: c.LinkType, Tag: "omitempty,oneof=saved shortened", Message: "Invalid link type"},
		{Value: c.Title, Tag: "max=500", Message: "Title is too long (max 500 characters)"},
		{Value: c.Notes, Tag: "max=2000", Message: "Notes are too long (max 2000 characters)"},
	}))
}

// Candidate projects l back to the fields ValidateLink checks.
func (l Link) Candidate() LinkCandidate {
	return LinkCandidate{
		OriginalURL: l.OriginalURL,
		LinkType:    string(l.LinkType),
		Title:       l.Title,
		Notes:       l.Notes,
	}
}

// NewSavedLink builds an unsaved bookmark candidate.
func NewSavedLink(url, title, notes string) Link {
	return NormalizeLink(RawLink{
		OriginalURL: &url,
		Title:       &title,
		Notes:       &notes,
	})
}

// NewShortLink builds an unsaved short link. An empty slug lets the server
// choose one.
func NewShortLink(url, slug string) Link {
	kind := string(LinkShortened)
	raw := RawLink{OriginalURL: &url, LinkType: &kind}
	if slug != "" {
		raw.Slug = &slug
	}
	return NormalizeLink(raw)
}

// IsExpired reports whether the link has an expiry before now.
func (l Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// IsLive reports whether the link is active, unarchived and unexpired.
func (l Link) IsLive(now time.Time) bool {
	return l.IsActive && !l.Archived && !l.IsExpired(now)
}

// CanEdit reports whether the link may still be modified.
func (l Link) CanEdit(now time.Time) bool {
	return !l.Archived && !l.IsExpired(now)
}

// HasTag reports whether the link carries a tag with the given id.
func (l Link) HasTag(id int) bool {
	for _, t := range l.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// TagNames returns the names of the link's tags in order.
func (l Link) TagNames() []string {
	names := make([]string, 0, len(l.Tags))
	for _, t := range l.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Apply returns a copy of l with the non-nil patch fields applied.
func (l Link) Apply(p LinkPatch) Link {
	if p.OriginalURL != nil {
		l.OriginalURL = *p.OriginalURL
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.Pinned != nil {
		l.Pinned = *p.Pinned
	}
	if p.Starred != nil {
		l.Starred = *p.Starred
	}
	if p.Archived != nil {
		l.Archived = *p.Archived
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
	if p.FolderID != nil {
		l.FolderID = *p.FolderID
	}
	if p.Tags != nil {
		l.Tags = append([]TagRef(nil), (*p.Tags)...)
	}
	if p.ExpiresAt != nil {
		l.ExpiresAt = p.ExpiresAt
	}
	if p.UpdatedAt != nil {
		l.UpdatedAt = p.UpdatedAt
	}
	return l
}
