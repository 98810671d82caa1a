package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/foldertree"
	"github.com/rodstewart/savlink-cli/internal/models"
)

// htmlWriter remembers the first write error so the rendering code can stay
// linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) printf(indent int, format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, strings.Repeat("    ", indent)+format, args...)
}

// ExportHTML exports links to Netscape bookmark format (HTML). Links inside
// a folder are written under nested <H3> sections; links whose folder is
// unknown or deleted are written at the top level.
func ExportHTML(writer io.Writer, links []models.Link, options ExportOptions) error {
	links = selectLinks(links, options)

	var folders []models.Folder
	for _, f := range options.Folders {
		if !f.SoftDeleted {
			folders = append(folders, f)
		}
	}
	tree := foldertree.Build(folders)

	known := make(map[int]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}
	byFolder := make(map[int][]models.Link)
	var loose []models.Link
	for _, l := range links {
		if l.FolderID != nil && known[*l.FolderID] {
			byFolder[*l.FolderID] = append(byFolder[*l.FolderID], l)
			continue
		}
		loose = append(loose, l)
	}

	h := &htmlWriter{w: writer}
	h.printf(0, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	h.printf(0, "<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	h.printf(0, "<TITLE>Bookmarks</TITLE>\n")
	h.printf(0, "<H1>Bookmarks</H1>\n")
	h.printf(0, "<DL><p>\n")

	for _, n := range tree {
		writeHTMLFolder(h, n, byFolder, 1)
	}
	for _, l := range loose {
		writeHTMLLink(h, l, 1)
	}

	h.printf(0, "</DL><p>\n")

	if h.err != nil {
		return fmt.Errorf("failed to write HTML: %w", h.err)
	}
	return nil
}

func writeHTMLFolder(h *htmlWriter, n *foldertree.Node, byFolder map[int][]models.Link, depth int) {
	h.printf(depth, "<DT><H3>%s</H3>\n", html.EscapeString(n.Folder.Name))
	h.printf(depth, "<DL><p>\n")
	for _, child := range n.Children {
		writeHTMLFolder(h, child, byFolder, depth+1)
	}
	for _, l := range byFolder[n.Folder.ID] {
		writeHTMLLink(h, l, depth+1)
	}
	h.printf(depth, "</DL><p>\n")
}

func writeHTMLLink(h *htmlWriter, l models.Link, depth int) {
	var addDate int64
	if l.CreatedAt != nil {
		addDate = l.CreatedAt.Unix()
	}

	h.printf(depth, "<DT><A HREF=\"%s\" ADD_DATE=\"%d\"", html.EscapeString(l.OriginalURL), addDate)
	if len(l.Tags) > 0 {
		h.printf(0, " TAGS=\"%s\"", html.EscapeString(strings.Join(l.TagNames(), ",")))
	}
	h.printf(0, ">%s</A>\n", html.EscapeString(l.Title))

	if l.Notes != "" {
		h.printf(depth, "<DD>%s\n", html.EscapeString(l.Notes))
	}
}
