package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/selection"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select links from the current view and act on them",
	Long: `Build a selection over the filtered link view the way clicks in a list would,
then print it or apply a bulk action to it.

Steps run in this order: --all, --range, --click, --toggle.

A click is a link ID, optionally prefixed with a modifier:
  12         plain click: select only link 12
  ctrl:12    add or remove link 12
  shift:12   select everything from the last clicked link to link 12

Ranges use the 1-based positions shown in the # column.

Examples:
  savlinkctl select --click 4 --click shift:9
  savlinkctl select --tag old --all --archive
  savlinkctl select --range 2:5 --toggle 7 --delete --force`,
	RunE: runSelect,
}

var (
	selectFlags   viewFlags
	selectAll     bool
	selectRange   string
	selectClicks  []string
	selectToggle  []int
	selectArchive bool
	selectDelete  bool
	selectForce   bool
)

func init() {
	rootCmd.AddCommand(selectCmd)

	selectFlags.register(selectCmd)
	selectCmd.Flags().BoolVar(&selectAll, "all", false, "Select every link in the view")
	selectCmd.Flags().StringVar(&selectRange, "range", "", "Select positions start:end (1-based, inclusive)")
	selectCmd.Flags().StringArrayVar(&selectClicks, "click", nil, "Click a link ID, optionally as ctrl:ID or shift:ID (repeatable)")
	selectCmd.Flags().IntSliceVar(&selectToggle, "toggle", nil, "Toggle these link IDs")
	selectCmd.Flags().BoolVar(&selectArchive, "archive", false, "Archive the selected links")
	selectCmd.Flags().BoolVar(&selectDelete, "delete", false, "Delete the selected links")
	selectCmd.Flags().BoolVarP(&selectForce, "force", "f", false, "skip confirmation prompt for --delete")
}

// click is one parsed --click value.
type click struct {
	id   int
	mods selection.Modifiers
}

func parseClick(s string) (click, error) {
	var c click
	ref := s
	if mod, rest, ok := strings.Cut(s, ":"); ok {
		switch strings.ToLower(mod) {
		case "ctrl":
			c.mods.Ctrl = true
		case "meta", "cmd":
			c.mods.Meta = true
		case "shift":
			c.mods.Shift = true
		default:
			return click{}, fmt.Errorf("invalid click %q: unknown modifier %q", s, mod)
		}
		ref = rest
	}
	id, err := parseID(ref, "link")
	if err != nil {
		return click{}, err
	}
	c.id = id
	return c, nil
}

func parseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ":")
	start, err1 := strconv.Atoi(a)
	end, err2 := strconv.Atoi(b)
	if !ok || err1 != nil || err2 != nil || start < 1 || end < 1 {
		return 0, 0, fmt.Errorf("invalid range %q (expected start:end, e.g. 2:5)", s)
	}
	return start - 1, end - 1, nil
}

// buildSelection replays the selection steps over the view.
func buildSelection(links []models.Link) (*selection.Model[int], error) {
	ids := make([]int, len(links))
	position := make(map[int]int, len(links))
	for i, l := range links {
		ids[i] = l.ID
		position[l.ID] = i
	}
	sel := selection.New(ids)

	if selectAll {
		sel.SelectAll()
	}

	if selectRange != "" {
		start, end, err := parseRange(selectRange)
		if err != nil {
			return nil, err
		}
		sel.SelectRange(start, end)
	}

	for _, raw := range selectClicks {
		c, err := parseClick(raw)
		if err != nil {
			return nil, err
		}
		i, ok := position[c.id]
		if !ok {
			return nil, fmt.Errorf("link %d is not in the current view", c.id)
		}
		sel.HandleItemClick(c.id, i, c.mods)
	}

	for _, id := range selectToggle {
		if _, ok := position[id]; !ok {
			return nil, fmt.Errorf("link %d is not in the current view", id)
		}
		sel.Toggle(id)
	}

	return sel, nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	if selectArchive && selectDelete {
		return fmt.Errorf("--archive and --delete cannot be combined")
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := loadStore(client, cfg)
	if err != nil {
		return err
	}
	if err := selectFlags.apply(s, cfg); err != nil {
		return err
	}

	links := selectFlags.view(s)
	sel, err := buildSelection(links)
	if err != nil {
		return err
	}
	ids := sel.SelectedIDs()

	if len(ids) > 0 && (selectArchive || selectDelete) {
		if selectDelete && !selectForce && !jsonOutput {
			ok, err := confirm(cmd, fmt.Sprintf("Delete %d selected links?", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
				return nil
			}
		}
		if selectDelete {
			err = client.BulkDelete(ids)
		} else {
			err = client.BulkArchive(ids)
		}
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"selected_ids": ids,
			"count":        sel.Count(),
			"all_selected": sel.IsAllSelected(),
			"archived":     selectArchive && len(ids) > 0,
			"deleted":      selectDelete && len(ids) > 0,
		})
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No links selected")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE")
	fmt.Fprintln(w, "-\t--\t-----")
	for i, l := range links {
		if sel.IsSelected(l.ID) {
			fmt.Fprintf(w, "%d\t%d\t%s\n", i+1, l.ID, urlutil.Truncate(orDash(l.Title), 50))
		}
	}
	w.Flush()

	summary := fmt.Sprintf("\n%d of %d links selected", sel.Count(), len(links))
	if sel.IsAllSelected() {
		summary += " (all)"
	}
	fmt.Fprintln(out, summary)

	switch {
	case selectArchive:
		fmt.Fprintf(out, "✓ Archived %d links\n", len(ids))
	case selectDelete:
		fmt.Fprintf(out, "✓ Deleted %d links\n", len(ids))
	}
	return nil
}
