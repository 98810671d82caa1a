package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/store"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List links",
	Long: `List links with optional filtering and sorting.

Every filter given must match. --tag matches links carrying any of the tags.
Archived links are hidden unless --archived is set.

Examples:
  savlinkctl list
  savlinkctl list -q kubernetes --starred
  savlinkctl list --folder 3 --tag go --tag rust
  savlinkctl list --type shortened --sort click_count`,
	RunE: runList,
}

var (
	listFlags viewFlags
	listLimit int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags.register(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Max results (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := loadStore(client, cfg)
	if err != nil {
		return err
	}
	if err := listFlags.apply(s, cfg); err != nil {
		return err
	}

	links := listFlags.view(s)
	total := len(links)
	if listLimit > 0 && len(links) > listLimit {
		links = links[:listLimit]
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), links)
	}

	return outputLinkTable(cmd, s, links, total)
}

func outputLinkTable(cmd *cobra.Command, s *store.Store, links []models.Link, total int) error {
	out := cmd.OutOrStdout()
	if len(links) == 0 {
		fmt.Fprintln(out, "No links found")
		if s.HasActiveFilters() {
			fmt.Fprintln(out, "(filters active)")
		}
		return nil
	}

	folderNames := make(map[int]string)
	for _, f := range s.Folders() {
		folderNames[f.ID] = f.Name
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTITLE\tDOMAIN\tTAGS\tFOLDER\tFLAGS\tUPDATED")
	fmt.Fprintln(w, "--\t-----\t------\t----\t------\t-----\t-------")

	for _, l := range links {
		title := l.Title
		if title == "" {
			title = urlutil.ExtractDisplayURL(l.OriginalURL)
		}

		folder := "-"
		if l.FolderID != nil {
			folder = orDash(folderNames[*l.FolderID])
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			urlutil.Truncate(title, 50),
			orDash(urlutil.ExtractDomain(l.OriginalURL)),
			urlutil.Truncate(orDash(strings.Join(l.TagNames(), ", ")), 30),
			folder,
			linkFlags(l),
			formatDate(l.UpdatedAt))
	}

	w.Flush()

	fmt.Fprintf(out, "\nShowing %d of %d links", len(links), total)
	if s.HasActiveFilters() {
		fmt.Fprint(out, " (filters active)")
	}
	fmt.Fprintln(out)

	return nil
}

// linkFlags renders the pinned, starred, short and archived markers.
func linkFlags(l models.Link) string {
	var b strings.Builder
	if l.Pinned {
		b.WriteString("P")
	}
	if l.Starred {
		b.WriteString("*")
	}
	if l.LinkType == models.LinkShortened {
		b.WriteString("S")
	}
	if l.Archived {
		b.WriteString("A")
	}
	return orDash(b.String())
}
