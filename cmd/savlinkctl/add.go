package main

import (
	"fmt"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
	"github.com/spf13/cobra"
)

var (
	addTitle  string
	addNotes  string
	addFolder string
	addTags   []string
	addShort  bool
	addSlug   string
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a new link",
	Long: `Add a new saved link, or a short link with --short.

The URL is normalized before it is saved: https:// is added when no scheme
is given, trailing slashes are removed and query parameters are sorted.

Examples:
  savlinkctl add example.com/docs --title "Docs" --tags go,reference
  savlinkctl add https://example.com/very/long/path --short
  savlinkctl add https://example.com --short --slug launch`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Link title")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Notes")
	addCmd.Flags().StringVar(&addFolder, "folder", "", "Folder ID to file the link in")
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "T", nil, "Comma-separated tag names (created when missing)")
	addCmd.Flags().BoolVarP(&addShort, "short", "s", false, "Create a short link")
	addCmd.Flags().StringVar(&addSlug, "slug", "", "Short link slug (default: generated)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addSlug != "" && !addShort {
		return fmt.Errorf("--slug requires --short")
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	url := urlutil.NormalizeURL(args[0])

	var link models.Link
	if addShort {
		slug := addSlug
		if slug == "" {
			slug, err = urlutil.GenerateSlug(cfg.SlugLength)
			if err != nil {
				return fmt.Errorf("failed to generate slug: %w", err)
			}
		}
		if !urlutil.ValidateSlug(slug) {
			return fmt.Errorf("invalid slug %q: use at least 3 lowercase letters, digits or hyphens, not starting or ending with a hyphen", slug)
		}
		link = models.NewShortLink(url, slug)
		link.Title = addTitle
		link.Notes = addNotes
	} else {
		link = models.NewSavedLink(url, addTitle, addNotes)
	}

	if result := models.ValidateLink(link.Candidate()); !result.IsValid {
		return fmt.Errorf("invalid link: %s", result.Error())
	}

	folderID, err := parseFolderRef(addFolder)
	if err != nil {
		return err
	}

	tagIDs, err := tagIDsForNames(client, addTags)
	if err != nil {
		return err
	}

	create := &models.LinkCreate{
		OriginalURL: link.OriginalURL,
		Title:       link.Title,
		Notes:       link.Notes,
		LinkType:    link.LinkType,
		FolderID:    folderID,
		TagIDs:      tagIDs,
	}
	if link.Slug != nil {
		create.Slug = *link.Slug
	}

	raw, err := client.CreateLink(create)
	if err != nil {
		return err
	}
	created := models.NormalizeLink(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), created)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Link added: %s\n", orDash(created.Title))
	fmt.Fprintf(out, "  ID: %d\n", created.ID)
	fmt.Fprintf(out, "  URL: %s\n", created.OriginalURL)
	if created.ShortURL != nil {
		fmt.Fprintf(out, "  Short URL: %s\n", *created.ShortURL)
	} else if created.Slug != nil {
		fmt.Fprintf(out, "  Slug: %s\n", *created.Slug)
	}
	if len(created.Tags) > 0 {
		fmt.Fprintf(out, "  Tags: %s\n", strings.Join(created.TagNames(), ", "))
	}

	return nil
}

// tagIDsForNames maps tag names to ids, creating the tags that do not exist.
func tagIDsForNames(client *api.Client, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}

	raws, err := client.FetchAllTags()
	if err != nil {
		return nil, err
	}
	known := make(map[string]int, len(raws))
	for _, raw := range raws {
		t := models.NormalizeTag(raw)
		known[models.NormalizeTagName(t.Name)] = t.ID
	}

	var ids []int
	for _, name := range names {
		key := models.NormalizeTagName(name)
		if key == "" {
			continue
		}
		id, ok := known[key]
		if !ok {
			if result := models.ValidateTag(models.TagCandidate{Name: key}); !result.IsValid {
				return nil, fmt.Errorf("invalid tag '%s': %s", key, result.Error())
			}
			color := models.RandomTagColor()
			raw, err := client.CreateTag(&models.TagCreate{Name: key, Color: &color})
			if err != nil {
				return nil, err
			}
			id = models.NormalizeTag(*raw).ID
			known[key] = id
		}
		ids = append(ids, id)
	}
	return ids, nil
}
