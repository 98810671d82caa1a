package main

import (
	"fmt"
	"time"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

var (
	updateURL    string
	updateTitle  string
	updateNotes  string
	updateFolder string
	updateTags   []string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a link",
	Long: `Update an existing link. Only the flags given are changed.

Examples:
  savlinkctl update 123 --title "New title"
  savlinkctl update 123 --folder root
  savlinkctl update 123 --tags go,cli`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateURL, "target", "", "New destination URL")
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "n", "", "New notes")
	updateCmd.Flags().StringVar(&updateFolder, "folder", "", "Move to folder ID, or 'root'")
	updateCmd.Flags().StringSliceVarP(&updateTags, "tags", "T", nil, "Replace all tags")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "link")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var patch models.LinkPatch
	if flags.Changed("target") {
		u := urlutil.NormalizeURL(updateURL)
		patch.OriginalURL = &u
	}
	if flags.Changed("title") {
		patch.Title = &updateTitle
	}
	if flags.Changed("notes") {
		patch.Notes = &updateNotes
	}
	if flags.Changed("folder") {
		folderID, err := parseFolderRef(updateFolder)
		if err != nil {
			return err
		}
		patch.FolderID = &folderID
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	if flags.Changed("tags") {
		ids, err := tagIDsForNames(client, updateTags)
		if err != nil {
			return err
		}
		if ids == nil {
			ids = []int{}
		}
		patch.TagIDs = &ids
	}

	if patch.IsEmpty() {
		return fmt.Errorf("no changes specified. Use --target, --title, --notes, --folder or --tags")
	}

	raw, err := client.GetLink(id)
	if err != nil {
		return err
	}
	current := models.NormalizeLink(*raw)
	if !current.CanEdit(time.Now()) {
		return fmt.Errorf("link %d is %s and cannot be edited", id, linkStatus(current, time.Now()))
	}

	if result := models.ValidateLink(current.Apply(patch).Candidate()); !result.IsValid {
		return fmt.Errorf("invalid link: %s", result.Error())
	}

	raw, err = client.UpdateLink(id, &patch)
	if err != nil {
		return err
	}
	updated := models.NormalizeLink(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), updated)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Link %d updated: %s\n", updated.ID, orDash(updated.Title))
	return nil
}
