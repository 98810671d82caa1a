package main

import (
	"fmt"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/spf13/cobra"
)

// linkAction is a one-shot change applied to each link ID given.
type linkAction struct {
	use   string
	short string
	done  string
	apply func(client *api.Client, id int) error
}

func setStarred(on bool) func(*api.Client, int) error {
	return func(client *api.Client, id int) error {
		_, err := client.UpdateLink(id, &models.LinkPatch{Starred: &on})
		return err
	}
}

var linkActions = []linkAction{
	{"pin", "Pin links to the top of the collection", "pinned", (*api.Client).PinLink},
	{"unpin", "Unpin links", "unpinned", (*api.Client).UnpinLink},
	{"star", "Star links", "starred", setStarred(true)},
	{"unstar", "Remove the star from links", "unstarred", setStarred(false)},
	{"archive", "Archive links", "archived", (*api.Client).ArchiveLink},
	{"unarchive", "Take links out of the archive", "unarchived", (*api.Client).RestoreLink},
}

func init() {
	for _, a := range linkActions {
		rootCmd.AddCommand(newLinkActionCmd(a))
	}
}

func newLinkActionCmd(a linkAction) *cobra.Command {
	return &cobra.Command{
		Use:   a.use + " <id>...",
		Short: a.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, "link")
			if err != nil {
				return err
			}

			client, _, err := newClient(cmd)
			if err != nil {
				return err
			}

			for _, id := range ids {
				if err := a.apply(client, id); err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{a.done: true, "ids": ids})
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Link %d %s\n", id, a.done)
			}
			return nil
		},
	}
}
