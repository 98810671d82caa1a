package main

import (
	"fmt"
	"time"

	"github.com/rodstewart/savlink-cli/internal/store"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Long: `Show link counts for the dashboard sections. All, Recent and Unassigned
leave out archived links. Recent covers the last 7 days.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type statsOutput struct {
	store.Stats
	Folders int `json:"folders"`
	Tags    int `json:"tags"`
}

func runStats(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := loadStore(client, cfg)
	if err != nil {
		return err
	}

	stats := statsOutput{
		Stats:   s.Stats(time.Now()),
		Folders: len(s.VisibleFolders()),
		Tags:    len(s.Tags()),
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "All links:   %d\n", stats.All)
	fmt.Fprintf(out, "Recent:      %d\n", stats.Recent)
	fmt.Fprintf(out, "Starred:     %d\n", stats.Starred)
	fmt.Fprintf(out, "Pinned:      %d\n", stats.Pinned)
	fmt.Fprintf(out, "Archived:    %d\n", stats.Archived)
	fmt.Fprintf(out, "Unassigned:  %d\n", stats.Unassigned)
	fmt.Fprintf(out, "Folders:     %d\n", stats.Folders)
	fmt.Fprintf(out, "Tags:        %d\n", stats.Tags)
	return nil
}
