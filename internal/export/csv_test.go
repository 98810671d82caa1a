package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, testLinks(), ExportOptions{Folders: testFolders()}); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "url,title,notes,tags,folder,link_type,slug,starred,pinned,archived,created_at" {
		t.Errorf("Unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "https://example.com" || first[3] != "tag1,tag2" || first[7] != "true" {
		t.Errorf("Unexpected first row: %v", first)
	}
	if first[10] != "2024-03-01T12:00:00Z" {
		t.Errorf("Expected RFC3339 created_at, got %q", first[10])
	}

	second := rows[2]
	if second[1] != "Go <docs>" || second[4] != "Work/Go & Rust" || second[5] != "shortened" || second[6] != "go-doc" {
		t.Errorf("Unexpected second row: %v", second)
	}
}

func TestExportCSV_QuotesSpecialCharacters(t *testing.T) {
	links := testLinks()[:1]
	links[0].Title = `Say "hi", please`
	links[0].Notes = "line one\nline two"

	var buf bytes.Buffer
	if err := ExportCSV(&buf, links, ExportOptions{}); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if rows[1][1] != `Say "hi", please` || rows[1][2] != "line one\nline two" {
		t.Errorf("Special characters did not survive: %q %q", rows[1][1], rows[1][2])
	}
}
