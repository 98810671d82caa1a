package export

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/models"
)

// fakeService records what an import sends to the server.
type fakeService struct {
	links   []models.RawLink
	tags    []models.RawTag
	created []models.LinkCreate
	updated map[int]models.LinkPatch
	newTags []string
	failURL string
}

func newFakeService(urls ...string) *fakeService {
	f := &fakeService{updated: map[int]models.LinkPatch{}}
	for i, u := range urls {
		f.links = append(f.links, models.RawLink{ID: intPtr(100 + i), OriginalURL: strPtr(u)})
	}
	f.tags = []models.RawTag{{ID: intPtr(1), Name: strPtr("go")}}
	return f
}

func (f *fakeService) FetchAllLinks() ([]models.RawLink, error) { return f.links, nil }
func (f *fakeService) FetchAllTags() ([]models.RawTag, error)   { return f.tags, nil }

func (f *fakeService) CreateLink(c *models.LinkCreate) (*models.RawLink, error) {
	if c.OriginalURL == f.failURL {
		return nil, errors.New("server exploded")
	}
	f.created = append(f.created, *c)
	id := len(f.created)
	return &models.RawLink{ID: &id, OriginalURL: &c.OriginalURL}, nil
}

func (f *fakeService) UpdateLink(id int, p *models.LinkPatch) (*models.RawLink, error) {
	f.updated[id] = *p
	return &models.RawLink{ID: &id}, nil
}

func (f *fakeService) CreateTag(c *models.TagCreate) (*models.RawTag, error) {
	f.newTags = append(f.newTags, c.Name)
	id := 50 + len(f.newTags)
	return &models.RawTag{ID: &id, Name: &c.Name}, nil
}

// TestDetectFormat tests format detection from file extensions
func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"links.json", "json"},
		{"links.JSON", "json"},
		{"links.html", "html"},
		{"links.htm", "html"},
		{"links.HTM", "html"},
		{"links.csv", "csv"},
		{"links.txt", ""},
		{"links", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

// TestImportJSON_RoundTrip tests JSON export -> import round trip
func TestImportJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, testLinks(), ExportOptions{IncludeArchived: true}); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	svc := newFakeService()
	result, err := Import(svc, &buf, "json", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Added != 3 || result.Failed != 0 {
		t.Fatalf("Expected 3 added and 0 failed, got %+v", result)
	}

	first := svc.created[0]
	if first.OriginalURL != "https://example.com" || first.Notes != "Test link" {
		t.Errorf("Unexpected first create: %+v", first)
	}
	if len(first.TagIDs) != 2 || first.TagIDs[0] != 51 || first.TagIDs[1] != 52 {
		t.Errorf("Expected new tag ids for tag1/tag2, got %v", first.TagIDs)
	}

	second := svc.created[1]
	if second.LinkType != models.LinkShortened || second.Slug != "go-doc" {
		t.Errorf("Expected short link with slug, got %+v", second)
	}

	if _, ok := svc.updated[1]; !ok {
		t.Error("Expected starred flag to be applied after create")
	}
	if p, ok := svc.updated[3]; !ok || !*p.Archived {
		t.Error("Expected archived flag to be applied after create")
	}
}

func TestImportJSON_ValidationErrors(t *testing.T) {
	input := `{"links": [
		{"url": "", "title": "No URL"},
		{"url": "example.com/ok", "title": "Fine"},
		{"url": "not a url"},
		{"url": "https://example.com/long", "title": "` + strings.Repeat("x", 501) + `"},
		{"url": "https://example.com/kind", "link_type": "bogus"}
	]}`

	svc := newFakeService()
	result, err := Import(svc, strings.NewReader(input), "json", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Added != 1 || result.Failed != 4 {
		t.Fatalf("Expected 1 added and 4 failed, got %+v", result)
	}
	if svc.created[0].OriginalURL != "https://example.com/ok" {
		t.Errorf("Expected normalized URL, got %q", svc.created[0].OriginalURL)
	}

	want := []ImportError{
		{Line: 1, Message: "URL is required"},
		{Line: 3, Message: "URL format is invalid"},
		{Line: 4, Message: "Title is too long (max 500 characters)"},
		{Line: 5, Message: "Invalid link type"},
	}
	for i, w := range want {
		if result.Errors[i] != w {
			t.Errorf("Error %d: expected %+v, got %+v", i, w, result.Errors[i])
		}
	}
}

func TestImportJSON_InvalidDocument(t *testing.T) {
	_, err := Import(newFakeService(), strings.NewReader("{not json"), "json", ImportOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to parse JSON") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestImport_DuplicatesUseNormalizedURL(t *testing.T) {
	input := "url,title\nexample.com/docs/,Docs\nhttps://example.com/new,New\n"

	t.Run("update existing", func(t *testing.T) {
		svc := newFakeService("https://example.com/docs")
		result, err := Import(svc, strings.NewReader(input), "csv", ImportOptions{})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Updated != 1 || result.Added != 1 {
			t.Errorf("Expected 1 updated and 1 added, got %+v", result)
		}
		if p, ok := svc.updated[100]; !ok || *p.Title != "Docs" {
			t.Errorf("Expected link 100 to be updated, got %+v", svc.updated)
		}
	})

	t.Run("skip duplicates", func(t *testing.T) {
		svc := newFakeService("https://example.com/docs")
		result, err := Import(svc, strings.NewReader(input), "csv", ImportOptions{SkipDuplicates: true})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Skipped != 1 || result.Added != 1 || len(svc.updated) != 0 {
			t.Errorf("Expected 1 skipped and 1 added, got %+v", result)
		}
	})

	t.Run("duplicate within file", func(t *testing.T) {
		svc := newFakeService()
		dup := "url\nhttps://example.com/a\nexample.com/a/\n"
		result, err := Import(svc, strings.NewReader(dup), "csv", ImportOptions{SkipDuplicates: true})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Added != 1 || result.Skipped != 1 {
			t.Errorf("Expected 1 added and 1 skipped, got %+v", result)
		}
	})
}

func TestImport_DryRun(t *testing.T) {
	input := "url,tags\nhttps://example.com/docs,new-tag\nhttps://example.com/new,\n"
	svc := newFakeService("https://example.com/docs")

	result, err := Import(svc, strings.NewReader(input), "csv", ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Added != 1 || result.Updated != 1 {
		t.Errorf("Expected 1 added and 1 updated, got %+v", result)
	}
	if len(svc.created) != 0 || len(svc.updated) != 0 || len(svc.newTags) != 0 {
		t.Error("Expected dry run to leave the server untouched")
	}
}

func TestImportCSV(t *testing.T) {
	input := strings.Join([]string{
		"title,url,tags,starred,folder",
		`Go,https://go.dev,"go, Web Dev",yes,Work`,
		`Bad,"https://example.com/"broken",,,`,
		`Missing,,,,`,
		`Multi,"https://example.com/m",,,`,
	}, "\n") + "\n"

	svc := newFakeService()
	result, err := Import(svc, strings.NewReader(input), "csv", ImportOptions{AddTags: []string{"imported"}, FolderID: intPtr(7)})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Added != 2 || result.Failed != 2 {
		t.Fatalf("Expected 2 added and 2 failed, got %+v", result)
	}
	if result.Errors[0].Line != 3 || !strings.Contains(result.Errors[0].Message, "Failed to parse CSV") {
		t.Errorf("Unexpected first error: %+v", result.Errors[0])
	}
	if result.Errors[1] != (ImportError{Line: 4, Message: "URL is required"}) {
		t.Errorf("Unexpected second error: %+v", result.Errors[1])
	}

	first := svc.created[0]
	if first.FolderID == nil || *first.FolderID != 7 {
		t.Errorf("Expected folder 7, got %v", first.FolderID)
	}
	// "go" exists as tag 1, "web-dev" and "imported" are created.
	if len(first.TagIDs) != 3 || first.TagIDs[0] != 1 {
		t.Errorf("Unexpected tag ids: %v", first.TagIDs)
	}
	if strings.Join(svc.newTags, ",") != "web-dev,imported" {
		t.Errorf("Unexpected created tags: %v", svc.newTags)
	}
	if p, ok := svc.updated[1]; !ok || !*p.Starred {
		t.Error("Expected starred flag to be applied")
	}
}

func TestImportCSV_NoURLColumn(t *testing.T) {
	_, err := Import(newFakeService(), strings.NewReader("title\nx\n"), "csv", ImportOptions{})
	if err == nil || !strings.Contains(err.Error(), `no "url" column`) {
		t.Errorf("Expected missing column error, got %v", err)
	}
}

func TestImportHTML_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportHTML(&buf, testLinks(), ExportOptions{Folders: testFolders()}); err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}

	svc := newFakeService()
	result, err := Import(svc, &buf, "html", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 2 || result.Failed != 0 {
		t.Fatalf("Expected 2 added, got %+v", result)
	}

	byURL := map[string]models.LinkCreate{}
	for _, c := range svc.created {
		byURL[c.OriginalURL] = c
	}

	goDoc, ok := byURL["https://go.dev/doc?a=1&b=2"]
	if !ok || goDoc.Title != "Go <docs>" {
		t.Errorf("Expected unescaped URL and title, got %+v", svc.created)
	}
	example := byURL["https://example.com"]
	if example.Notes != "Test link" || len(example.TagIDs) != 2 {
		t.Errorf("Expected notes and tags, got %+v", example)
	}
}

func TestImportHTML_DescriptionBelongsToPreviousLink(t *testing.T) {
	input := `<DL><p>
<DT><A HREF="https://a.example.com">A</A>
<DT><A HREF="https://b.example.com">B</A>
<DD>About B
<DT><H3>Folder</H3>
<DD>Orphan
</DL><p>
`
	svc := newFakeService()
	if _, err := Import(svc, strings.NewReader(input), "html", ImportOptions{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(svc.created) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(svc.created))
	}
	if svc.created[0].Notes != "" || svc.created[1].Notes != "About B" {
		t.Errorf("Unexpected notes: %q %q", svc.created[0].Notes, svc.created[1].Notes)
	}
}

func TestImport_CreateFailureReported(t *testing.T) {
	svc := newFakeService()
	svc.failURL = "https://example.com/b"
	input := "url\nhttps://example.com/a\nhttps://example.com/b\n"

	result, err := Import(svc, strings.NewReader(input), "csv", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 1 || result.Failed != 1 {
		t.Fatalf("Expected 1 added and 1 failed, got %+v", result)
	}
	if result.Errors[0].Line != 3 || result.Errors[0].Message != "Failed to create: server exploded" {
		t.Errorf("Unexpected error: %+v", result.Errors[0])
	}
}

func TestImport_InvalidTagName(t *testing.T) {
	svc := newFakeService()
	result, err := Import(svc, strings.NewReader("url,tags\nhttps://example.com,<b>\n"), "csv", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Failed != 1 || !strings.HasPrefix(result.Errors[0].Message, "Failed to create tag: tag '<b>'") {
		t.Errorf("Expected tag validation failure, got %+v", result)
	}
	if len(svc.newTags) != 0 {
		t.Error("Expected invalid tag not to be created")
	}
}

func TestImportLinks_File(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "links.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportLinks(newFakeService(), path, ImportOptions{}); err == nil || !strings.Contains(err.Error(), "cannot detect format") {
		t.Errorf("Expected detection error, got %v", err)
	}

	if _, err := ImportLinks(newFakeService(), filepath.Join(dir, "missing.csv"), ImportOptions{}); err == nil || !strings.Contains(err.Error(), "failed to open file") {
		t.Errorf("Expected open error, got %v", err)
	}

	if _, err := ImportLinks(newFakeService(), path, ImportOptions{Format: "xml"}); err == nil || err.Error() != "unsupported format: xml" {
		t.Errorf("Expected unsupported format error, got %v", err)
	}
}

// TestImport_ThroughAPIClient runs an import against a fake Savlink server.
func TestImport_ThroughAPIClient(t *testing.T) {
	var creates int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /api/links":
			_, _ = w.Write([]byte(`{"success":true,"data":{"links":[],"has_more":false}}`))
		case "GET /api/tags":
			_, _ = w.Write([]byte(`{"success":true,"data":{"tags":[]}}`))
		case "POST /api/links":
			creates++
			_, _ = w.Write([]byte(`{"success":true,"data":{"link":{"id":9,"original_url":"https://example.com"}}}`))
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "token")
	result, err := Import(client, strings.NewReader("url\nexample.com\n"), "csv", ImportOptions{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 1 || creates != 1 {
		t.Errorf("Expected one create, got %+v (%d requests)", result, creates)
	}
}
