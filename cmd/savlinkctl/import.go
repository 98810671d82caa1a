package main

import (
	"fmt"

	"github.com/rodstewart/savlink-cli/internal/export"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import links from a file",
	Long: `Import links from JSON, HTML or CSV.

Format is auto-detected from file extension:
  .json → JSON format (as written by export)
  .html, .htm → HTML/Netscape format
  .csv → CSV format with a header row

Every record is validated before it is sent. Invalid records are reported
with their line number and skipped. URLs are compared after normalization,
so example.com/docs/ and https://example.com/docs count as the same link.

Examples:
  savlinkctl import links.json
  savlinkctl import bookmarks.html --add-tags imported --folder 4
  savlinkctl import export.csv --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importFormat         string
	importDryRun         bool
	importSkipDuplicates bool
	importAddTags        []string
	importFolder         string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFormat, "format", "f", "auto", "Input format: json, html, csv (default: auto-detect)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without making changes")
	importCmd.Flags().BoolVar(&importSkipDuplicates, "skip-duplicates", false, "Skip URLs that already exist (default: update them)")
	importCmd.Flags().StringSliceVarP(&importAddTags, "add-tags", "T", []string{}, "Add these tags to all imported links")
	importCmd.Flags().StringVar(&importFolder, "folder", "", "File imported links in this folder ID")
}

func runImport(cmd *cobra.Command, args []string) error {
	folderID, err := parseFolderRef(importFolder)
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	result, err := export.ImportLinks(client, args[0], export.ImportOptions{
		Format:         importFormat,
		DryRun:         importDryRun,
		SkipDuplicates: importSkipDuplicates,
		AddTags:        importAddTags,
		FolderID:       folderID,
	})
	if err != nil {
		return err
	}

	return outputImportResult(cmd, result, importDryRun)
}

// outputImportResult prints the counters and per-line errors of an import.
func outputImportResult(cmd *cobra.Command, result *export.ImportResult, dryRun bool) error {
	if jsonOutput {
		errs := result.Errors
		if errs == nil {
			errs = []export.ImportError{}
		}
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"added":   result.Added,
			"updated": result.Updated,
			"skipped": result.Skipped,
			"failed":  result.Failed,
			"errors":  errs,
			"dry_run": dryRun,
		})
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run: no changes were made")
	}
	fmt.Fprintf(out, "Added:   %d\n", result.Added)
	fmt.Fprintf(out, "Updated: %d\n", result.Updated)
	fmt.Fprintf(out, "Skipped: %d\n", result.Skipped)
	fmt.Fprintf(out, "Failed:  %d\n", result.Failed)

	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  Line %d: %s\n", e.Line, e.Message)
		}
	}
	return nil
}
