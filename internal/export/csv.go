package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rodstewart/savlink-cli/internal/models"
)

var csvHeader = []string{
	"url",
	"title",
	"notes",
	"tags",
	"folder",
	"link_type",
	"slug",
	"starred",
	"pinned",
	"archived",
	"created_at",
}

// ExportCSV exports links to CSV format
func ExportCSV(writer io.Writer, links []models.Link, options ExportOptions) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range convertToExportFormat(selectLinks(links, options), options.Folders) {
		createdAt := ""
		if e.CreatedAt != nil {
			createdAt = e.CreatedAt.Format(time.RFC3339)
		}

		row := []string{
			e.URL,
			e.Title,
			e.Notes,
			strings.Join(e.Tags, ","),
			e.Folder,
			string(e.LinkType),
			e.Slug,
			strconv.FormatBool(e.Starred),
			strconv.FormatBool(e.Pinned),
			strconv.FormatBool(e.Archived),
			createdAt,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
