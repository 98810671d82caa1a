package main

import (
	"fmt"
	"os"

	"github.com/rodstewart/savlink-cli/internal/export"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export links",
	Long: `Export the filtered link view to JSON, YAML, CSV or Netscape HTML.
The HTML format nests links under their folders.

Examples:
  savlinkctl export > links.json
  savlinkctl export -f html -o bookmarks.html
  savlinkctl export --tag homelab -f csv -o homelab.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFlags  viewFlags
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, yaml, csv, html")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json", "yaml", "csv", "html":
	default:
		return fmt.Errorf("invalid export format '%s'. Valid formats: json, yaml, csv, html", exportFormat)
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := loadStore(client, cfg)
	if err != nil {
		return err
	}
	if err := exportFlags.apply(s, cfg); err != nil {
		return err
	}
	links := exportFlags.view(s)

	writer := cmd.OutOrStdout()
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	// The view already applied --archived.
	options := export.ExportOptions{
		IncludeArchived: true,
		Folders:         s.Folders(),
	}

	switch exportFormat {
	case "json":
		err = export.ExportJSON(writer, links, options)
	case "yaml":
		err = export.ExportYAML(writer, links, options)
	case "csv":
		err = export.ExportCSV(writer, links, options)
	case "html":
		err = export.ExportHTML(writer, links, options)
	}
	if err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d links to %s\n", len(links), exportOutput)
	}
	return nil
}
