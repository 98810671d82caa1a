package export

import (
	"fmt"
	"io"

	"github.com/rodstewart/savlink-cli/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportYAML exports links to YAML, using the same document shape as JSON.
func ExportYAML(writer io.Writer, links []models.Link, options ExportOptions) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(newExportData(links, options)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
