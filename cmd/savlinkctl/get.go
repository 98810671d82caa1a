package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a link by ID",
	Long: `Get a link by ID and display its full details.

Examples:
  savlinkctl get 123
  savlinkctl get 123 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "link")
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	raw, err := client.GetLink(id)
	if err != nil {
		return err
	}
	link := models.NormalizeLink(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), link)
	}

	outputLinkHuman(cmd, link)
	return nil
}

func linkStatus(l models.Link, now time.Time) string {
	switch {
	case l.Archived:
		return "archived"
	case l.IsExpired(now):
		return "expired"
	case !l.IsActive:
		return "inactive"
	default:
		return "live"
	}
}

func outputLinkHuman(cmd *cobra.Command, l models.Link) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "ID:          %d\n", l.ID)
	fmt.Fprintf(out, "URL:         %s\n", l.OriginalURL)
	fmt.Fprintf(out, "Title:       %s\n", orDash(l.Title))
	fmt.Fprintf(out, "Domain:      %s\n", orDash(urlutil.ExtractDomain(l.OriginalURL)))
	fmt.Fprintf(out, "Type:        %s\n", l.LinkType.Label())
	if l.LinkType == models.LinkShortened {
		if l.Slug != nil {
			fmt.Fprintf(out, "Slug:        %s\n", *l.Slug)
		}
		if l.ShortURL != nil {
			fmt.Fprintf(out, "Short URL:   %s\n", *l.ShortURL)
		}
		fmt.Fprintf(out, "Clicks:      %d\n", l.ClickCount)
	}
	if l.Notes != "" {
		fmt.Fprintf(out, "Notes:       %s\n", l.Notes)
	}
	fmt.Fprintf(out, "Tags:        %s\n", orDash(strings.Join(l.TagNames(), ", ")))
	if l.FolderID != nil {
		fmt.Fprintf(out, "Folder:      %d\n", *l.FolderID)
	}
	fmt.Fprintf(out, "Status:      %s\n", linkStatus(l, time.Now()))
	fmt.Fprintf(out, "Pinned:      %t\n", l.Pinned)
	fmt.Fprintf(out, "Starred:     %t\n", l.Starred)
	fmt.Fprintf(out, "Created:     %s\n", formatTime(l.CreatedAt))
	fmt.Fprintf(out, "Updated:     %s\n", formatTime(l.UpdatedAt))
	if l.ExpiresAt != nil {
		fmt.Fprintf(out, "Expires:     %s\n", formatTime(l.ExpiresAt))
	}
}
