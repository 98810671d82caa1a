package main

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/spf13/cobra"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags with usage counts",
	Long: `List all tags with the number of links using them.

Examples:
  savlinkctl tags
  savlinkctl tags --sort usage
  savlinkctl tags --filter dev --unused
  savlinkctl tags --by-color`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

var (
	tagsSort    string
	tagsFilter  string
	tagsUnused  bool
	tagsByColor bool
	tagColor    string
)

var tagsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Long: `Create a tag. Names are lowercased and spaces become hyphens.
A color is picked from the palette when --color is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runTagsCreate,
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsDelete,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsCreateCmd, tagsDeleteCmd)

	tagsCmd.Flags().StringVarP(&tagsSort, "sort", "s", "name", "Sort by: name, usage")
	tagsCmd.Flags().StringVar(&tagsFilter, "filter", "", "Only tags whose name contains this text")
	tagsCmd.Flags().BoolVar(&tagsUnused, "unused", false, "Show only tags with 0 links")
	tagsCmd.Flags().BoolVar(&tagsByColor, "by-color", false, "Group tags by color")

	tagsCreateCmd.Flags().StringVar(&tagColor, "color", "", "Color as #RRGGBB")
}

func runTags(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	raws, err := client.FetchAllTags()
	if err != nil {
		return err
	}
	tags := make([]models.Tag, len(raws))
	for i, raw := range raws {
		tags[i] = models.NormalizeTag(raw)
	}

	tags = models.FilterTagsByName(tags, tagsFilter)
	if tagsUnused {
		tags = slices.DeleteFunc(slices.Clone(tags), func(t models.Tag) bool { return t.UsageCount > 0 })
	}

	switch tagsSort {
	case "name":
		tags = slices.Clone(tags)
		sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	case "usage", "count":
		tags = models.SortTagsByUsage(tags)
	default:
		return fmt.Errorf("invalid sort option: %s (use 'name' or 'usage')", tagsSort)
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	if tagsByColor {
		groups := models.GroupTagsByColor(tags)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), groups)
		}
		return outputTagGroups(cmd, groups)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), tags)
	}
	return outputTagsTable(cmd, tags)
}

func outputTagsTable(cmd *cobra.Command, tags []models.Tag) error {
	out := cmd.OutOrStdout()
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTAG\tCOLOR\tLINKS")
	fmt.Fprintln(w, "--\t---\t-----\t-----")
	for _, t := range tags {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", t.ID, t.Name, t.DisplayColor(), t.UsageCount)
	}

	w.Flush()

	fmt.Fprintf(out, "\nTotal: %d tags\n", len(tags))
	return nil
}

func outputTagGroups(cmd *cobra.Command, groups map[string][]models.Tag) error {
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No tags found")
		return nil
	}

	colors := make([]string, 0, len(groups))
	for c := range groups {
		colors = append(colors, c)
	}
	sort.Strings(colors)

	for _, c := range colors {
		names := make([]string, len(groups[c]))
		for i, t := range groups[c] {
			names[i] = t.Name
		}
		fmt.Fprintf(out, "%s  %s\n", c, strings.Join(names, ", "))
	}
	return nil
}

func runTagsCreate(cmd *cobra.Command, args []string) error {
	name := models.NormalizeTagName(args[0])
	color := tagColor
	if color == "" {
		color = models.RandomTagColor()
	}

	if result := models.ValidateTag(models.TagCandidate{Name: name, Color: color}); !result.IsValid {
		return fmt.Errorf("invalid tag: %s", result.Error())
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	raw, err := client.CreateTag(&models.TagCreate{Name: name, Color: &color})
	if err != nil {
		return err
	}
	tag := models.NormalizeTag(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), tag)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Tag created: %s (ID %d, %s)\n", tag.Name, tag.ID, tag.DisplayColor())
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "tag")
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	if err := client.DeleteTag(id); err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"deleted": true, "id": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Tag %d deleted\n", id)
	return nil
}
