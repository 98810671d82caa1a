package models

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rodstewart/savlink-cli/internal/validation"
)

// TagPalette is the set of colors offered for new tags.
var TagPalette = []string{
	"#EF4444", // red
	"#F97316", // orange
	"#F59E0B", // amber
	"#EAB308", // yellow
	"#84CC16", // lime
	"#22C55E", // green
	"#10B981", // emerald
	"#06B6D4", // cyan
	"#3B82F6", // blue
	"#6366F1", // indigo
	"#8B5CF6", // violet
	"#A855F7", // purple
	"#D946EF", // fuchsia
	"#EC4899", // pink
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Tag represents a Savlink tag
type Tag struct {
	ID         int        `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Color      *string    `json:"color" yaml:"color,omitempty"`
	CreatedAt  *time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UserID     *string    `json:"user_id" yaml:"user_id,omitempty"`
	UsageCount int        `json:"usage_count" yaml:"usage_count"`
}

// RawTag is a tag as it arrives from the API.
type RawTag struct {
	ID         *int    `json:"id"`
	Name       *string `json:"name"`
	Color      *string `json:"color"`
	CreatedAt  *string `json:"created_at"`
	UserID     *string `json:"user_id"`
	UsageCount *int    `json:"usage_count"`
}

// TagCandidate holds the fields ValidateTag checks.
type TagCandidate struct {
	Name  string
	Color string
}

// TagCreate represents the request to create a tag
type TagCreate struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// TagPatch represents a partial tag update
type TagPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// NormalizeTag fills every absent field of raw with its default.
func NormalizeTag(raw RawTag) Tag {
	return Tag{
		ID:         derefInt(raw.ID),
		Name:       derefString(raw.Name),
		Color:      nonEmpty(raw.Color),
		CreatedAt:  parseTime(raw.CreatedAt),
		UserID:     raw.UserID,
		UsageCount: derefInt(raw.UsageCount),
	}
}

// ValidateTag checks a tag candidate.
func ValidateTag(c TagCandidate) ValidationResult {
	return newResult(validate.Collect([]validation.Rule{
		{Value: c.Name, Tag: "notblank", Message: "Tag name is required"},
		{Value: c.Name, Tag: "max=100", Message: "Tag name is too long (max 100 characters)"},
		{Value: c.Color, Tag: "omitempty,rgbhex", Message: "Invalid color format"},
		{Value: c.Name, Tag: "excludesall=<>'\"&", Message: "Tag name contains invalid characters"},
	}))
}

// Candidate projects t back to the fields ValidateTag checks.
func (t Tag) Candidate() TagCandidate {
	return TagCandidate{Name: t.Name, Color: derefString(t.Color)}
}

// DisplayColor returns the tag color or the default grey.
func (t Tag) DisplayColor() string {
	if t.Color == nil || *t.Color == "" {
		return DefaultColor
	}
	return *t.Color
}

// Ref returns the reference embedded in links carrying this tag.
func (t Tag) Ref() TagRef {
	return TagRef{ID: t.ID, Name: t.Name, Color: t.Color}
}

// Apply returns a copy of t with the non-nil patch fields applied.
func (t Tag) Apply(p TagPatch) Tag {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = nonEmpty(p.Color)
	}
	return t
}

// NormalizeTagName lowercases name and joins its words with hyphens.
func NormalizeTagName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// FormatTagName upper-cases the first letter of name.
func FormatTagName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// RandomTagColor picks a color from TagPalette.
func RandomTagColor() string {
	return TagPalette[rand.IntN(len(TagPalette))]
}

// SortTagsByUsage returns a copy of tags ordered by usage count, most used
// first. Ties keep their input order.
func SortTagsByUsage(tags []Tag) []Tag {
	out := append([]Tag(nil), tags...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UsageCount > out[j].UsageCount
	})
	return out
}

// FilterTagsByName returns the tags whose name contains query, ignoring case.
// An empty query returns tags unchanged.
func FilterTagsByName(tags []Tag, query string) []Tag {
	if query == "" {
		return tags
	}
	q := strings.ToLower(query)
	var out []Tag
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// GroupTagsByColor buckets tags by their display color.
func GroupTagsByColor(tags []Tag) map[string][]Tag {
	groups := make(map[string][]Tag)
	for _, t := range tags {
		c := t.DisplayColor()
		groups[c] = append(groups[c], t)
	}
	return groups
}
