// Package urlutil provides the URL helpers used when a link is pasted, edited
// or shortened.
//
// Every function here is total: malformed input never panics and never
// produces an error. Functions that transform a URL return their input
// unchanged when it cannot be parsed, and predicates return false.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultSlugLength is the length of generated short-link slugs.
	DefaultSlugLength = 7

	// SlugAlphabet is the 36-symbol alphabet slugs are drawn from.
	SlugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// MaxDisplayLength is where ExtractDisplayURL truncates.
	MaxDisplayLength = 50
)

var (
	schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	slugRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,}[a-z0-9]$`)
)

// UTMParams are the campaign parameters appended by AppendUTMParams.
// Empty fields are skipped.
type UTMParams struct {
	Source   string `json:"utm_source,omitempty" yaml:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty" yaml:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty" yaml:"utm_campaign,omitempty"`
	Term     string `json:"utm_term,omitempty" yaml:"utm_term,omitempty"`
	Content  string `json:"utm_content,omitempty" yaml:"utm_content,omitempty"`
}

// IsValidURL reports whether s parses as an absolute URL.
func IsValidURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// NormalizeURL canonicalizes a user-entered URL for comparison and
// deduplication:
//
//   - https:// is prepended when no scheme:// prefix is present
//   - trailing slashes are removed from the path ("/" itself is kept)
//   - query keys are sorted
//
// Blank input yields "". Input that does not parse, or has no host, is
// returned unchanged. NormalizeURL(NormalizeURL(s)) == NormalizeURL(s).
func NormalizeURL(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	candidate := trimmed
	if !schemeRe.MatchString(candidate) {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return s
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
		if u.Path == "" {
			u.Path = "/"
		}
		if u.RawPath != "" {
			u.RawPath = strings.TrimRight(u.RawPath, "/")
		}
	}

	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String()
}

// ExtractDomain returns the hostname of s without a leading "www.".
// It returns "" when s has no parseable host.
func ExtractDomain(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// ExtractDisplayURL returns domain+path for display, truncated to
// MaxDisplayLength runes with a "..." suffix. Unparseable input is
// truncated as-is.
func ExtractDisplayURL(s string) string {
	display := s
	if domain := ExtractDomain(s); domain != "" {
		display = domain
		if u, err := url.Parse(strings.TrimSpace(s)); err == nil && u.Path != "/" {
			display += u.Path
		}
	}
	return Truncate(display, MaxDisplayLength)
}

// Truncate shortens s to max runes, appending "..." when anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// GenerateSlug proposes a random short-link slug of the given length drawn
// uniformly from SlugAlphabet. A non-positive length means DefaultSlugLength.
// The server has the final say on uniqueness.
func GenerateSlug(length int) (string, error) {
	if length <= 0 {
		length = DefaultSlugLength
	}
	return gonanoid.Generate(SlugAlphabet, length)
}

// ValidateSlug reports whether slug is a well-formed short-link slug:
// lowercase alphanumerics and hyphens, at least 3 characters, not starting
// or ending with a hyphen.
func ValidateSlug(slug string) bool {
	return slugRe.MatchString(slug)
}

// AppendUTMParams sets the non-empty campaign parameters on s, keeping any
// other query parameters.
func AppendUTMParams(s string, params UTMParams) string {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return s
	}

	pairs := []struct{ key, value string }{
		{"utm_source", params.Source},
		{"utm_medium", params.Medium},
		{"utm_campaign", params.Campaign},
		{"utm_term", params.Term},
		{"utm_content", params.Content},
	}

	q := u.Query()
	changed := false
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		q.Set(p.key, p.value)
		changed = true
	}
	if !changed {
		return s
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// RemoveQueryParams deletes the named query parameters from s. With no keys
// the whole query string is dropped.
func RemoveQueryParams(s string, keys ...string) string {
	u, err := url.Parse(s)
	if err != nil || u.RawQuery == "" {
		return s
	}

	if len(keys) == 0 {
		u.RawQuery = ""
		u.ForceQuery = false
		return u.String()
	}

	q := u.Query()
	for _, k := range keys {
		q.Del(k)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsInternalURL reports whether s points at the same site as base. Relative
// paths ("/s/abc") count as internal.
func IsInternalURL(s, base string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if !u.IsAbs() && u.Host == "" {
		return strings.HasPrefix(u.Path, "/")
	}

	baseHost := ExtractDomain(base)
	if baseHost == "" {
		return false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") == baseHost
}

// IsSecure reports whether s uses https.
func IsSecure(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}

// FaviconURL returns the favicon service URL for the domain of s, or "" when
// s has no domain.
func FaviconURL(s string) string {
	domain := ExtractDomain(s)
	if domain == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(domain) + "&sz=32"
}
