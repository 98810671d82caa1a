package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/export"
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Restore links from a backup file",
	Long: `Restore links from a backup file.

Without --wipe: Equivalent to 'savlinkctl import <file>'
  - Existing links are updated
  - New links are added

With --wipe: Deletes ALL existing links before importing (DANGEROUS)
  - Requires typing 'yes' to confirm
  - Cannot be undone

Examples:
  savlinkctl restore backup.json
  savlinkctl restore backup.json --dry-run
  savlinkctl restore backup.json --wipe`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

var (
	restoreDryRun bool
	restoreWipe   bool
)

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Show what would be restored without making changes")
	restoreCmd.Flags().BoolVar(&restoreWipe, "wipe", false, "Delete all existing links before restore (DANGEROUS)")
}

func runRestore(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	if restoreWipe {
		if err := wipeLinks(cmd, client); err != nil {
			return err
		}
	}

	result, err := export.ImportLinks(client, args[0], export.ImportOptions{
		Format: "auto",
		DryRun: restoreDryRun,
	})
	if err != nil {
		return err
	}

	return outputImportResult(cmd, result, restoreDryRun)
}

// wipeLinks deletes every existing link after the user types 'yes'.
func wipeLinks(cmd *cobra.Command, client *api.Client) error {
	raws, err := client.FetchAllLinks()
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()

	if len(raws) == 0 {
		fmt.Fprintln(stderr, "No existing links to delete.")
		return nil
	}

	if restoreDryRun {
		fmt.Fprintf(stderr, "Dry run: Would delete %d existing links\n", len(raws))
		return nil
	}

	if jsonOutput {
		return fmt.Errorf("--wipe requires interactive confirmation. Cannot use with --json flag")
	}

	fmt.Fprintf(stderr, "WARNING: This will delete ALL %d existing links before restoring.\n", len(raws))
	fmt.Fprint(stderr, "Type 'yes' to confirm: ")

	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.TrimSpace(strings.ToLower(response)) != "yes" {
		return fmt.Errorf("restore cancelled")
	}

	ids := make([]int, 0, len(raws))
	for _, raw := range raws {
		if raw.ID != nil {
			ids = append(ids, *raw.ID)
		}
	}
	if err := client.BulkDelete(ids); err != nil {
		return fmt.Errorf("failed to delete existing links: %w", err)
	}

	fmt.Fprintf(stderr, "Deleted %d links\n", len(ids))
	return nil
}
