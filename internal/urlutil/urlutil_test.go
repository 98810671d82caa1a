package urlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"  https://example.com  ", true},
		{"mailto:someone@example.com", true},
		{"example.com/path", false},
		{"not a url", false},
		{"", false},
		{"://missing-scheme", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.input))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"adds scheme", "example.com", "https://example.com"},
		{"keeps http", "http://example.com", "http://example.com"},
		{"strips trailing slash", "https://example.com/docs/", "https://example.com/docs"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"collapses trailing slashes", "https://example.com/a//", "https://example.com/a"},
		{"sorts query keys", "https://example.com/p?b=2&a=1", "https://example.com/p?a=1&b=2"},
		{"keeps fragment", "example.com/p/#top", "https://example.com/p#top"},
		{"blank input", "   ", ""},
		{"unparseable returned unchanged", "not a url", "not a url"},
		{"no host returned unchanged", "https://", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.input))
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"EXAMPLE.com/Path/",
		"HTTPS://example.com/a/b///",
		"https://example.com/?",
		"https://example.com/search?q=a+b&z=1&a=%20x",
		"https://example.com/a%2Fb/",
		"ftp://files.example.com/pub/",
		"https://user:pw@example.com:8443/x/?k=v#frag",
		"http://[::1]:8080/",
		"not a url",
		"https://",
		"",
		"   ",
		"a b c",
		"%zz",
		"example.com:8080/path",
		"https://example.com/p?x;y=1",
	}

	for _, in := range inputs {
		once := NormalizeURL(in)
		assert.Equal(t, once, NormalizeURL(once), "input %q", in)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.example.com/path", "example.com"},
		{"https://sub.example.com", "sub.example.com"},
		{"http://example.com:8080/x", "example.com"},
		{"https://WWW.Example.com", "example.com"},
		{"not a url", ""},
		{"", ""},
		{"%zz", ""},
		{"http://[::1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ExtractDomain(tt.input))
			})
		})
	}
}

func TestExtractDisplayURL(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDisplayURL("https://www.example.com/"))
	assert.Equal(t, "example.com/docs/intro", ExtractDisplayURL("https://example.com/docs/intro?x=1"))

	long := "https://example.com/" + strings.Repeat("a", 80)
	got := ExtractDisplayURL(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, MaxDisplayLength+3, len(got))

	assert.Equal(t, "plain text", ExtractDisplayURL("plain text"))
}

func TestGenerateSlug(t *testing.T) {
	slug, err := GenerateSlug(0)
	require.NoError(t, err)
	assert.Len(t, slug, DefaultSlugLength)

	for i := 0; i < 50; i++ {
		slug, err := GenerateSlug(12)
		require.NoError(t, err)
		require.Len(t, slug, 12)
		for _, r := range slug {
			assert.True(t, strings.ContainsRune(SlugAlphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"abc", true},
		{"ab", false},
		{"-abc", false},
		{"abc-", false},
		{"abc-123", true},
		{"ABC", false},
		{"a_b", false},
		{"a--b", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSlug(tt.slug))
		})
	}
}

func TestAppendUTMParams(t *testing.T) {
	got := AppendUTMParams("https://example.com/p?ref=x", UTMParams{Source: "news", Campaign: "spring"})
	assert.Equal(t, "https://example.com/p?ref=x&utm_campaign=spring&utm_source=news", got)

	assert.Equal(t, "https://example.com", AppendUTMParams("https://example.com", UTMParams{}))
	assert.Equal(t, "not a url", AppendUTMParams("not a url", UTMParams{Source: "x"}))
	assert.Equal(t, "%zz", AppendUTMParams("%zz", UTMParams{Source: "x"}))
}

func TestRemoveQueryParams(t *testing.T) {
	assert.Equal(t, "https://example.com/p?keep=1",
		RemoveQueryParams("https://example.com/p?utm_source=a&keep=1", "utm_source"))
	assert.Equal(t, "https://example.com/p",
		RemoveQueryParams("https://example.com/p?a=1&b=2"))
	assert.Equal(t, "https://example.com", RemoveQueryParams("https://example.com", "a"))
	assert.Equal(t, "%zz", RemoveQueryParams("%zz", "a"))
}

func TestIsInternalURL(t *testing.T) {
	base := "https://savl.ink"

	assert.True(t, IsInternalURL("https://savl.ink/abc", base))
	assert.True(t, IsInternalURL("https://www.SAVL.ink/abc", base))
	assert.True(t, IsInternalURL("/s/abc", base))
	assert.False(t, IsInternalURL("https://example.com/abc", base))
	assert.False(t, IsInternalURL("https://savl.ink/abc", ""))
	assert.False(t, IsInternalURL("%zz", base))
	assert.False(t, IsInternalURL("relative/path", base))
}

func TestIsSecureAndFavicon(t *testing.T) {
	assert.True(t, IsSecure("https://example.com"))
	assert.False(t, IsSecure("http://example.com"))
	assert.False(t, IsSecure("%zz"))

	assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=32", FaviconURL("https://www.example.com/x"))
	assert.Equal(t, "", FaviconURL("nothing"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 4))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
