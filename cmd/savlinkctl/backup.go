package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rodstewart/savlink-cli/internal/export"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a timestamped backup of all links",
	Long: `Create a timestamped JSON backup of every link, archived ones included.

The backup file is saved with a timestamp in the filename:
  savlink-backup-2026-01-22T103000.json

This is equivalent to running:
  savlinkctl export --archived -f json -o <timestamped-file>

Examples:
  savlinkctl backup
  savlinkctl backup -o ~/backups/
  savlinkctl backup --prefix my-backup`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var (
	backupOutput string
	backupPrefix string
)

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", ".", "Output directory (default: current directory)")
	backupCmd.Flags().StringVar(&backupPrefix, "prefix", "savlink-backup", "Filename prefix")
}

func runBackup(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	rawLinks, err := client.FetchAllLinks()
	if err != nil {
		return err
	}
	rawFolders, err := client.FetchAllFolders()
	if err != nil {
		return err
	}

	links := make([]models.Link, len(rawLinks))
	for i, raw := range rawLinks {
		links[i] = models.NormalizeLink(raw)
	}
	folders := make([]models.Folder, len(rawFolders))
	for i, raw := range rawFolders {
		folders[i] = models.NormalizeFolder(raw)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	fullPath := filepath.Join(backupOutput, fmt.Sprintf("%s-%s.json", backupPrefix, timestamp))

	if err := os.MkdirAll(backupOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	err = export.ExportJSON(file, links, export.ExportOptions{IncludeArchived: true, Folders: folders})
	if err != nil {
		// Remove partial file on error
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to export links: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"file": fullPath, "links": len(links)})
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Backup created: %s (%d links)\n", fullPath, len(links))
	return nil
}
