// Package export handles importing and exporting links in various formats.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
)

// LinkService is the part of the API client an import needs.
type LinkService interface {
	FetchAllLinks() ([]models.RawLink, error)
	FetchAllTags() ([]models.RawTag, error)
	CreateLink(create *models.LinkCreate) (*models.RawLink, error)
	UpdateLink(id int, patch *models.LinkPatch) (*models.RawLink, error)
	CreateTag(create *models.TagCreate) (*models.RawTag, error)
}

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Added   int
	Updated int
	Skipped int
	Failed  int
	Errors  []ImportError
}

// ImportError represents a single import failure
type ImportError struct {
	Line    int
	Message string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Format         string // json, html, csv, or auto
	DryRun         bool
	SkipDuplicates bool
	AddTags        []string
	FolderID       *int
}

// importRecord is one link read from an import file, before validation.
type importRecord struct {
	Line     int
	URL      string
	Title    string
	Notes    string
	LinkType string
	Slug     string
	Tags     []string
	Starred  bool
	Pinned   bool
	Archived bool
	// ParseErr is set when the row could not be read at all.
	ParseErr error
}

// DetectFormat determines the import format from the file extension
func DetectFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}

// ImportLinks imports links from a file
func ImportLinks(svc LinkService, filename string, options ImportOptions) (*ImportResult, error) {
	format := options.Format
	if format == "" || format == "auto" {
		format = DetectFormat(filename)
		if format == "" {
			return nil, fmt.Errorf("cannot detect format from file extension. Use --format flag")
		}
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Import(svc, file, format, options)
}

// Import reads links in the given format from reader and creates or updates
// them through svc. Every record is normalized and validated first; invalid
// records are counted as failed and reported with their line number.
func Import(svc LinkService, reader io.Reader, format string, options ImportOptions) (*ImportResult, error) {
	var (
		records []importRecord
		err     error
	)
	switch format {
	case "json":
		records, err = parseJSON(reader)
	case "html":
		records, err = parseHTML(reader)
	case "csv":
		records, err = parseCSV(reader)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	imp, err := newImporter(svc, options)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		imp.apply(rec)
	}
	return imp.result, nil
}

// parseJSON reads the document written by ExportJSON.
func parseJSON(reader io.Reader) ([]importRecord, error) {
	var data ExportData
	if err := json.NewDecoder(reader).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]importRecord, len(data.Links))
	for i, l := range data.Links {
		records[i] = importRecord{
			Line:     i + 1,
			URL:      l.URL,
			Title:    l.Title,
			Notes:    l.Notes,
			LinkType: string(l.LinkType),
			Slug:     l.Slug,
			Tags:     l.Tags,
			Starred:  l.Starred,
			Pinned:   l.Pinned,
			Archived: l.Archived,
		}
	}
	return records, nil
}

var (
	linkPattern = regexp.MustCompile(`(?i)<DT><A[^>]+HREF="([^"]+)"([^>]*)>([^<]*)</A>`)
	tagsPattern = regexp.MustCompile(`(?i)TAGS="([^"]+)"`)
	descPattern = regexp.MustCompile(`(?i)<DD>([^\n<]+)`)
)

// parseHTML reads Netscape bookmark files. A <DD> line is the description of
// the link directly above it.
func parseHTML(reader io.Reader) ([]importRecord, error) {
	var records []importRecord
	open := false

	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if matches := linkPattern.FindStringSubmatch(line); matches != nil {
			rec := importRecord{
				Line:  lineNum,
				URL:   html.UnescapeString(matches[1]),
				Title: html.UnescapeString(matches[3]),
			}
			if tagMatches := tagsPattern.FindStringSubmatch(matches[2]); tagMatches != nil {
				rec.Tags = splitTags(html.UnescapeString(tagMatches[1]))
			}
			records = append(records, rec)
			open = true
			continue
		}

		if matches := descPattern.FindStringSubmatch(line); matches != nil && open {
			records[len(records)-1].Notes = html.UnescapeString(strings.TrimSpace(matches[1]))
		}
		open = false
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read HTML: %w", err)
	}
	return records, nil
}

// parseCSV reads CSV with a header row. Column order is free; unknown
// columns are ignored. Rows that fail to parse are kept so they are reported
// against their line.
func parseCSV(reader io.Reader) ([]importRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, name := range header {
		colMap[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := colMap["url"]; !ok {
		return nil, fmt.Errorf("CSV header has no \"url\" column")
	}

	var records []importRecord
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read CSV: %w", err)
			}
			records = append(records, importRecord{Line: parseErr.StartLine, ParseErr: parseErr.Err})
			continue
		}
		line, _ := csvReader.FieldPos(0)

		records = append(records, importRecord{
			Line:     line,
			URL:      getCSVField(record, colMap, "url"),
			Title:    getCSVField(record, colMap, "title"),
			Notes:    getCSVField(record, colMap, "notes"),
			LinkType: getCSVField(record, colMap, "link_type"),
			Slug:     getCSVField(record, colMap, "slug"),
			Tags:     splitTags(getCSVField(record, colMap, "tags")),
			Starred:  parseCSVBool(getCSVField(record, colMap, "starred")),
			Pinned:   parseCSVBool(getCSVField(record, colMap, "pinned")),
			Archived: parseCSVBool(getCSVField(record, colMap, "archived")),
		})
	}
	return records, nil
}

// importer applies records against the server, tracking which normalized
// URLs already exist and which tag names map to which ids.
type importer struct {
	svc      LinkService
	options  ImportOptions
	result   *ImportResult
	existing map[string]int
	tags     map[string]int
}

func newImporter(svc LinkService, options ImportOptions) (*importer, error) {
	imp := &importer{
		svc:      svc,
		options:  options,
		result:   &ImportResult{},
		existing: make(map[string]int),
		tags:     make(map[string]int),
	}

	links, err := svc.FetchAllLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing links: %w", err)
	}
	for _, raw := range links {
		l := models.NormalizeLink(raw)
		imp.existing[urlutil.NormalizeURL(l.OriginalURL)] = l.ID
	}

	tags, err := svc.FetchAllTags()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing tags: %w", err)
	}
	for _, raw := range tags {
		t := models.NormalizeTag(raw)
		imp.tags[models.NormalizeTagName(t.Name)] = t.ID
	}

	return imp, nil
}

func (imp *importer) fail(line int, format string, args ...any) {
	imp.result.Failed++
	imp.result.Errors = append(imp.result.Errors, ImportError{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

func (imp *importer) apply(rec importRecord) {
	if rec.ParseErr != nil {
		imp.fail(rec.Line, "Failed to parse CSV: %v", rec.ParseErr)
		return
	}

	url := urlutil.NormalizeURL(rec.URL)
	if rec.LinkType == "" {
		rec.LinkType = string(models.LinkSaved)
	}

	check := models.ValidateLink(models.LinkCandidate{
		OriginalURL: url,
		LinkType:    rec.LinkType,
		Title:       rec.Title,
		Notes:       rec.Notes,
	})
	if !check.IsValid {
		imp.fail(rec.Line, "%s", check.Error())
		return
	}

	existingID, exists := imp.existing[url]
	if exists && imp.options.SkipDuplicates {
		imp.result.Skipped++
		return
	}

	if imp.options.DryRun {
		if exists {
			imp.result.Updated++
		} else {
			imp.result.Added++
			imp.existing[url] = 0
		}
		return
	}

	tagIDs, err := imp.resolveTags(slices.Concat(rec.Tags, imp.options.AddTags))
	if err != nil {
		imp.fail(rec.Line, "Failed to create tag: %v", err)
		return
	}

	if exists {
		patch := &models.LinkPatch{
			OriginalURL: &url,
			Title:       &rec.Title,
			Notes:       &rec.Notes,
			Starred:     &rec.Starred,
			Pinned:      &rec.Pinned,
			Archived:    &rec.Archived,
			TagIDs:      &tagIDs,
		}
		if imp.options.FolderID != nil {
			patch.FolderID = &imp.options.FolderID
		}
		if _, err := imp.svc.UpdateLink(existingID, patch); err != nil {
			imp.fail(rec.Line, "Failed to update: %v", err)
			return
		}
		imp.result.Updated++
		return
	}

	create := &models.LinkCreate{
		OriginalURL: url,
		Title:       rec.Title,
		Notes:       rec.Notes,
		LinkType:    models.LinkType(rec.LinkType),
		FolderID:    imp.options.FolderID,
		TagIDs:      tagIDs,
	}
	if create.LinkType == models.LinkShortened {
		create.Slug = rec.Slug
	}
	raw, err := imp.svc.CreateLink(create)
	if err != nil {
		imp.fail(rec.Line, "Failed to create: %v", err)
		return
	}
	imp.result.Added++

	created := models.NormalizeLink(*raw)
	imp.existing[url] = created.ID
	if created.Starred != rec.Starred || created.Pinned != rec.Pinned || created.Archived != rec.Archived {
		patch := &models.LinkPatch{Starred: &rec.Starred, Pinned: &rec.Pinned, Archived: &rec.Archived}
		if _, err := imp.svc.UpdateLink(created.ID, patch); err != nil {
			imp.fail(rec.Line, "Failed to set flags: %v", err)
		}
	}
}

// resolveTags maps tag names to ids, creating the tags that do not exist yet.
func (imp *importer) resolveTags(names []string) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	for _, name := range names {
		key := models.NormalizeTagName(name)
		if key == "" {
			continue
		}

		id, ok := imp.tags[key]
		if !ok {
			if check := models.ValidateTag(models.TagCandidate{Name: key}); !check.IsValid {
				return nil, fmt.Errorf("tag '%s': %s", key, check.Error())
			}
			raw, err := imp.svc.CreateTag(&models.TagCreate{Name: key})
			if err != nil {
				return nil, err
			}
			id = models.NormalizeTag(*raw).ID
			imp.tags[key] = id
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	tags := strings.Split(s, ",")
	for i, tag := range tags {
		tags[i] = strings.TrimSpace(tag)
	}
	return tags
}

// getCSVField safely retrieves a field from a CSV record
func getCSVField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}

// parseCSVBool parses a boolean value from CSV
func parseCSVBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}
