package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rodstewart/savlink-cli/internal/logger"
	"github.com/rodstewart/savlink-cli/internal/models"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": status < 300, "data": data}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.savl.test", "test-token")

	if client.baseURL != "https://api.savl.test" {
		t.Errorf("expected baseURL 'https://api.savl.test', got '%s'", client.baseURL)
	}
	if client.token != "test-token" {
		t.Errorf("expected token 'test-token', got '%s'", client.token)
	}
	if client.log == nil {
		t.Error("expected a default logger")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://api.savl.test/", "test-token")

	if client.baseURL != "https://api.savl.test" {
		t.Errorf("expected baseURL without trailing slash, got '%s'", client.baseURL)
	}
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("expected path '/api/auth/me', got '%s'", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("expected Authorization 'Bearer test-token', got '%s'", auth)
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Errorf("expected X-Request-ID to be a UUID, got '%s'", r.Header.Get("X-Request-ID"))
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"user": models.User{ID: "u1", Email: "me@savl.test"},
		})
	}))
	defer server.Close()

	var logs bytes.Buffer
	log := logger.New(logger.Config{Writer: &logs, Level: logger.ParseLevel("debug")})
	client := NewClient(server.URL, "test-token", WithLogger(log))

	user, err := client.Me()
	if err != nil {
		t.Fatalf("Me() failed: %v", err)
	}
	if user.Email != "me@savl.test" {
		t.Errorf("expected email 'me@savl.test', got '%s'", user.Email)
	}
	if !strings.Contains(logs.String(), "path=/api/auth/me") || !strings.Contains(logs.String(), "status=200") {
		t.Errorf("expected request to be logged, got %q", logs.String())
	}
}

func TestTestConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "Invalid token")
	}))
	defer server.Close()

	err := NewClient(server.URL, "bad-token").TestConnection()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	expectedMsg := "authentication failed. Check your API token"
	if err.Error() != expectedMsg {
		t.Errorf("expected error '%s', got '%v'", expectedMsg, err)
	}
}

func TestTestConnection_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewClient(url, "token").TestConnection()
	if err == nil || !strings.Contains(err.Error(), "cannot connect to") {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			body:    `{"success":false,"error":"nope"}`,
			wantErr: "insufficient permissions for this operation",
		},
		{
			name:    "bad request uses envelope message",
			status:  http.StatusBadRequest,
			body:    `{"success":false,"message":"original_url is required"}`,
			wantErr: "bad request: original_url is required",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantErr: "API error (status 500): boom",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
					t.Errorf("expected *APIError with status 500, got %T %v", err, err)
				}
			},
		},
		{
			name:    "success false on 200",
			status:  http.StatusOK,
			body:    `{"success":false,"error":"quota exceeded"}`,
			wantErr: "API error (status 200): quota exceeded",
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "token").FetchAllTags()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing '%s', got '%v'", tt.wantErr, err)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestGetLink_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Link not found")
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "token").GetLink(999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "link with ID 999 not found" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCreateLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/links" {
			t.Errorf("expected POST /api/links, got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got '%s'", ct)
		}

		var create models.LinkCreate
		if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if create.OriginalURL != "https://example.com" || create.LinkType != models.LinkShortened || create.Slug != "abc" {
			t.Errorf("unexpected request body: %+v", create)
		}

		writeEnvelope(t, w, http.StatusCreated, map[string]any{
			"link": map[string]any{
				"id":           42,
				"original_url": create.OriginalURL,
				"link_type":    "shortened",
				"slug":         "abc",
			},
		})
	}))
	defer server.Close()

	raw, err := NewClient(server.URL, "token").CreateLink(&models.LinkCreate{
		OriginalURL: "https://example.com",
		LinkType:    models.LinkShortened,
		Slug:        "abc",
	})
	if err != nil {
		t.Fatalf("CreateLink() failed: %v", err)
	}

	link := models.NormalizeLink(*raw)
	if link.ID != 42 || link.Slug == nil || *link.Slug != "abc" {
		t.Errorf("unexpected link: %+v", link)
	}
}

func TestUpdateLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/links/7" {
			t.Errorf("expected PUT /api/links/7, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if _, ok := body["notes"]; ok {
			t.Error("expected unset fields to be omitted")
		}
		if body["title"] != "Renamed" {
			t.Errorf("expected title 'Renamed', got %v", body["title"])
		}
		if v, ok := body["folder_id"]; !ok || v != nil {
			t.Errorf("expected folder_id null, got %v (present=%v)", v, ok)
		}

		writeEnvelope(t, w, http.StatusOK, map[string]any{"link": map[string]any{"id": 7, "title": "Renamed"}})
	}))
	defer server.Close()

	var root *int
	raw, err := NewClient(server.URL, "token").UpdateLink(7, &models.LinkPatch{Title: strPtr("Renamed"), FolderID: &root})
	if err != nil {
		t.Fatalf("UpdateLink() failed: %v", err)
	}
	if *raw.Title != "Renamed" {
		t.Errorf("expected title 'Renamed', got '%s'", *raw.Title)
	}
}

func TestLinkActions(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/api/links/bulk/") {
			var body idsBody
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) != 2 {
				t.Errorf("expected two ids, got %+v (%v)", body, err)
			}
		}
		writeEnvelope(t, w, http.StatusOK, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	calls := []func() error{
		func() error { return client.PinLink(1) },
		func() error { return client.UnpinLink(1) },
		func() error { return client.ArchiveLink(2) },
		func() error { return client.RestoreLink(2) },
		func() error { return client.DeleteLink(3) },
		func() error { return client.BulkDelete([]int{4, 5}) },
		func() error { return client.BulkArchive([]int{6, 7}) },
	}
	for _, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("link action failed: %v", err)
		}
	}

	want := []string{
		"POST /api/links/1/pin",
		"DELETE /api/links/1/pin",
		"POST /api/links/2/archive",
		"DELETE /api/links/2/archive",
		"DELETE /api/links/3",
		"POST /api/links/bulk/delete",
		"POST /api/links/bulk/archive",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected requests:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestDeleteLink_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := NewClient(server.URL, "token").DeleteLink(1); err != nil {
		t.Errorf("expected 204 to succeed, got %v", err)
	}
}

func TestFolders(t *testing.T) {
	var moveBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/folders":
			writeEnvelope(t, w, http.StatusOK, map[string]any{"folders": []map[string]any{
				{"id": 1, "name": "Work"},
				{"id": 2, "name": "Old", "soft_deleted": true},
			}})
		case "POST /api/folders":
			var create models.FolderCreate
			_ = json.NewDecoder(r.Body).Decode(&create)
			writeEnvelope(t, w, http.StatusCreated, map[string]any{"folder": map[string]any{"id": 3, "name": create.Name, "parent_id": create.ParentID}})
		case "PUT /api/folders/3":
			writeEnvelope(t, w, http.StatusOK, map[string]any{"folder": map[string]any{"id": 3, "name": "Renamed"}})
		case "POST /api/folders/3/move":
			_ = json.NewDecoder(r.Body).Decode(&moveBody)
			writeEnvelope(t, w, http.StatusOK, nil)
		case "DELETE /api/folders/3", "POST /api/folders/3/restore":
			writeEnvelope(t, w, http.StatusOK, nil)
		default:
			writeError(w, http.StatusNotFound, "Folder not found")
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")

	folders, err := client.FetchAllFolders()
	if err != nil {
		t.Fatalf("FetchAllFolders() failed: %v", err)
	}
	if len(folders) != 2 || !*folders[1].SoftDeleted {
		t.Errorf("unexpected folders: %+v", folders)
	}

	created, err := client.CreateFolder(&models.FolderCreate{Name: "Reading", ParentID: intPtr(1)})
	if err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}
	if *created.Name != "Reading" || *created.ParentID != 1 {
		t.Errorf("unexpected folder: %+v", created)
	}

	if _, err := client.UpdateFolder(3, &models.FolderPatch{Name: strPtr("Renamed")}); err != nil {
		t.Errorf("UpdateFolder() failed: %v", err)
	}

	if err := client.MoveFolder(3, nil); err != nil {
		t.Fatalf("MoveFolder() failed: %v", err)
	}
	if v, ok := moveBody["parent_id"]; !ok || v != nil {
		t.Errorf("expected parent_id null in move body, got %v", moveBody)
	}

	if err := client.DeleteFolder(3); err != nil {
		t.Errorf("DeleteFolder() failed: %v", err)
	}
	if err := client.RestoreFolder(3); err != nil {
		t.Errorf("RestoreFolder() failed: %v", err)
	}

	err = client.RestoreFolder(99)
	if !errors.Is(err, ErrNotFound) || err.Error() != "folder with ID 99 not found" {
		t.Errorf("expected folder not found, got %v", err)
	}
}

func TestTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/tags":
			writeEnvelope(t, w, http.StatusOK, map[string]any{"tags": []map[string]any{
				{"id": 1, "name": "go", "usage_count": 4},
			}})
		case "POST /api/tags":
			var create models.TagCreate
			_ = json.NewDecoder(r.Body).Decode(&create)
			if create.Name == "go" {
				writeError(w, http.StatusConflict, "Tag already exists")
				return
			}
			writeEnvelope(t, w, http.StatusCreated, map[string]any{"tag": map[string]any{"id": 2, "name": create.Name}})
		case "PUT /api/tags/2":
			writeEnvelope(t, w, http.StatusOK, map[string]any{"tag": map[string]any{"id": 2, "name": "rust", "color": "#EF4444"}})
		case "DELETE /api/tags/2":
			writeEnvelope(t, w, http.StatusOK, nil)
		default:
			writeError(w, http.StatusNotFound, "Tag not found")
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")

	tags, err := client.FetchAllTags()
	if err != nil {
		t.Fatalf("FetchAllTags() failed: %v", err)
	}
	if len(tags) != 1 || *tags[0].UsageCount != 4 {
		t.Errorf("unexpected tags: %+v", tags)
	}

	if _, err := client.CreateTag(&models.TagCreate{Name: "go"}); err == nil || err.Error() != "tag 'go' already exists" {
		t.Errorf("expected duplicate error, got %v", err)
	}

	created, err := client.CreateTag(&models.TagCreate{Name: "rust"})
	if err != nil {
		t.Fatalf("CreateTag() failed: %v", err)
	}
	if *created.ID != 2 {
		t.Errorf("expected id 2, got %d", *created.ID)
	}

	updated, err := client.UpdateTag(2, &models.TagPatch{Color: strPtr("#EF4444")})
	if err != nil {
		t.Fatalf("UpdateTag() failed: %v", err)
	}
	if *updated.Color != "#EF4444" {
		t.Errorf("expected color to be updated, got %v", *updated.Color)
	}

	if err := client.DeleteTag(2); err != nil {
		t.Errorf("DeleteTag() failed: %v", err)
	}
	if err := client.DeleteTag(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
