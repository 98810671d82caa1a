package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportHTML(&buf, testLinks(), ExportOptions{Folders: testFolders(), IncludeArchived: true}); err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n") {
		t.Error("Expected Netscape doctype")
	}
	if !strings.HasSuffix(out, "</DL><p>\n") {
		t.Error("Expected closing list")
	}

	for _, want := range []string{
		"    <DT><H3>Work</H3>\n",
		"        <DT><H3>Go &amp; Rust</H3>\n",
		`            <DT><A HREF="https://go.dev/doc?a=1&amp;b=2" ADD_DATE="1709294400">Go &lt;docs&gt;</A>`,
		`    <DT><A HREF="https://example.com" ADD_DATE="1709294400" TAGS="tag1,tag2">Example</A>`,
		"    <DD>Test link\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}

	if strings.Contains(out, "Trash") {
		t.Error("Expected soft-deleted folder to be left out")
	}
	if !strings.Contains(out, `    <DT><A HREF="https://old.example.com" ADD_DATE="0">Old</A>`) {
		t.Errorf("Expected link in deleted folder at top level\n%s", out)
	}

	work := strings.Index(out, "<H3>Work</H3>")
	nested := strings.Index(out, "<H3>Go &amp; Rust</H3>")
	if work < 0 || nested < work {
		t.Error("Expected nested folder after its parent")
	}
}

func TestExportHTML_NoFolders(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportHTML(&buf, testLinks(), ExportOptions{}); err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	if strings.Contains(buf.String(), "<H3>") {
		t.Error("Expected no folder sections")
	}
	if got := strings.Count(buf.String(), "<DT><A "); got != 2 {
		t.Errorf("Expected 2 links, got %d", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errShortWrite }

func TestExportHTML_WriteError(t *testing.T) {
	err := ExportHTML(failingWriter{}, testLinks(), ExportOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to write HTML") {
		t.Errorf("Expected write error, got %v", err)
	}
}
