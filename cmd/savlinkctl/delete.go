package main

import (
	"fmt"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/spf13/cobra"
)

var forceDelete bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete links by ID",
	Long: `Delete one or more links. Requires confirmation unless --force or --json is set.
Several IDs are deleted in a single bulk request.

Examples:
  savlinkctl delete 123
  savlinkctl delete 123 124 125 --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args, "link")
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	if !forceDelete && !jsonOutput {
		out := cmd.OutOrStdout()
		if len(ids) == 1 {
			raw, err := client.GetLink(ids[0])
			if err != nil {
				return err
			}
			link := models.NormalizeLink(*raw)
			fmt.Fprintf(out, "About to delete link:\n")
			fmt.Fprintf(out, "  ID:    %d\n", link.ID)
			fmt.Fprintf(out, "  Title: %s\n", orDash(link.Title))
			fmt.Fprintf(out, "  URL:   %s\n\n", link.OriginalURL)
		} else {
			fmt.Fprintf(out, "About to delete %d links: %v\n\n", len(ids), ids)
		}

		ok, err := confirm(cmd, "Are you sure?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Delete cancelled")
			return nil
		}
	}

	if len(ids) == 1 {
		err = client.DeleteLink(ids[0])
	} else {
		err = client.BulkDelete(ids)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"deleted": true, "ids": ids})
	}
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Link %d deleted\n", id)
	}
	return nil
}
