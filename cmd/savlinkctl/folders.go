package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/api"
	"github.com/rodstewart/savlink-cli/internal/foldertree"
	"github.com/rodstewart/savlink-cli/internal/models"
	"github.com/rodstewart/savlink-cli/internal/store"
	"github.com/spf13/cobra"
)

// foldersCmd represents the folders command
var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Show the folder tree",
	Long: `Show folders as an indented tree with link counts. The first count is the
links filed directly in the folder, the second includes its subfolders.

Examples:
  savlinkctl folders
  savlinkctl folders --all
  savlinkctl folders --json`,
	Args: cobra.NoArgs,
	RunE: runFolders,
}

var foldersAll bool

var foldersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoldersCreate,
}

var (
	folderParent string
	folderColor  string
	folderIcon   string
)

var foldersMoveCmd = &cobra.Command{
	Use:   "move <id> <parent-id|root>",
	Short: "Move a folder under another folder, or to the root",
	Args:  cobra.ExactArgs(2),
	RunE:  runFoldersMove,
}

var foldersRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFoldersRename,
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Move a folder to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return folderAction(cmd, args[0], "deleted", (*api.Client).DeleteFolder)
	},
}

var foldersRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a folder from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return folderAction(cmd, args[0], "restored", (*api.Client).RestoreFolder)
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	foldersCmd.AddCommand(foldersCreateCmd, foldersMoveCmd, foldersRenameCmd, foldersDeleteCmd, foldersRestoreCmd)

	foldersCmd.Flags().BoolVar(&foldersAll, "all", false, "Include folders in the trash")

	foldersCreateCmd.Flags().StringVar(&folderParent, "parent", "", "Parent folder ID")
	foldersCreateCmd.Flags().StringVar(&folderColor, "color", "", "Color as #RRGGBB")
	foldersCreateCmd.Flags().StringVar(&folderIcon, "icon", "", "Icon (default "+models.DefaultFolderIcon+")")
}

func runFolders(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := loadStore(client, cfg)
	if err != nil {
		return err
	}

	folders := s.VisibleFolders()
	if foldersAll {
		folders = s.Folders()
	}

	tree := foldertree.Build(folders)
	foldertree.CountLinks(tree, s.Links())
	flat := foldertree.Flatten(tree)

	if jsonOutput {
		if flat == nil {
			flat = []foldertree.Flat{}
		}
		return writeJSON(cmd.OutOrStdout(), flat)
	}

	out := cmd.OutOrStdout()
	if len(flat) == 0 {
		fmt.Fprintln(out, "No folders found")
		return nil
	}

	for _, f := range flat {
		line := fmt.Sprintf("%s%s %s [%d] (%d/%d)", strings.Repeat("  ", f.Depth), f.Icon, f.Name, f.ID, f.LinkCount, f.TotalLinkCount)
		if f.Pinned {
			line += " pinned"
		}
		if f.SoftDeleted {
			line += " (deleted)"
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "\nTotal: %d folders\n", len(flat))
	return nil
}

func runFoldersCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if result := models.ValidateFolder(models.FolderCandidate{Name: name, Color: folderColor}); !result.IsValid {
		return fmt.Errorf("invalid folder: %s", result.Error())
	}

	parentID, err := parseFolderRef(folderParent)
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	create := &models.FolderCreate{Name: name, Icon: folderIcon, ParentID: parentID}
	if folderColor != "" {
		create.Color = &folderColor
	}

	raw, err := client.CreateFolder(create)
	if err != nil {
		return err
	}
	folder := models.NormalizeFolder(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), folder)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Folder created: %s %s (ID %d)\n", folder.Icon, folder.Name, folder.ID)
	return nil
}

// runFoldersMove checks the move against the current tree before asking the
// server, so a folder can never be placed inside its own subtree.
func runFoldersMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "folder")
	if err != nil {
		return err
	}
	parentID, err := parseFolderRef(args[1])
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	raws, err := client.FetchAllFolders()
	if err != nil {
		return err
	}
	folders := make([]models.Folder, len(raws))
	for i, raw := range raws {
		folders[i] = models.NormalizeFolder(raw)
	}

	s := store.New()
	s.SetFolders(folders)
	if err := s.MoveFolder(id, parentID); err != nil {
		if errors.Is(err, store.ErrFolderCycle) {
			return fmt.Errorf("cannot move folder %d: %w", id, err)
		}
		return err
	}

	if err := client.MoveFolder(id, parentID); err != nil {
		return err
	}

	dest := "root"
	if parentID != nil {
		var names []string
		for _, f := range foldertree.Path(s.Folders(), *parentID) {
			names = append(names, f.Name)
		}
		dest = strings.Join(names, "/")
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"moved": true, "id": id, "parent_id": parentID})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Folder %d moved to %s\n", id, dest)
	return nil
}

func runFoldersRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "folder")
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args[1])
	if result := models.ValidateFolder(models.FolderCandidate{Name: name}); !result.IsValid {
		return fmt.Errorf("invalid folder: %s", result.Error())
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	raw, err := client.UpdateFolder(id, &models.FolderPatch{Name: &name})
	if err != nil {
		return err
	}
	folder := models.NormalizeFolder(*raw)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), folder)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Folder %d renamed to %s\n", folder.ID, folder.Name)
	return nil
}

func folderAction(cmd *cobra.Command, arg, done string, apply func(*api.Client, int) error) error {
	id, err := parseID(arg, "folder")
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	if err := apply(client, id); err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{done: true, "id": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Folder %d %s\n", id, done)
	return nil
}
