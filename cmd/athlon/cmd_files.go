package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"athlonos/internal/agent"
	"athlonos/internal/files"
	"athlonos/internal/window"
)

// filesCmd lists one folder of the mock file system
var filesCmd = &cobra.Command{
	Use:   "files [folder-id]",
	Short: "List a folder of the mock file system",
	Long: `Lists the children of a folder, the root by default. Folder ids are
shown in the listing.

Example:
  athlon files
  athlon files docs`,
	Args: cobra.MaximumNArgs(1),
	RunE: listFiles,
}

// catCmd prints a file the way the agent's readFile tool sees it
var catCmd = &cobra.Command{
	Use:   "cat <name>",
	Short: "Print a file from the mock file system",
	Args:  cobra.ExactArgs(1),
	RunE:  catFile,
}

// appsCmd lists the window registry
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the desktop applications",
	RunE:  listApps,
}

func loadTree() (*files.Tree, error) {
	return files.LoadTree(appCfg.Files.SeedPath)
}

func listFiles(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	id := tree.Root()
	if len(args) == 1 {
		id = args[0]
	}
	folder, ok := tree.Get(id)
	if !ok || !folder.IsFolder() {
		return fmt.Errorf("no folder with id %q", id)
	}

	nav := files.NewNavigator(tree)
	nav.Navigate(folder)
	fmt.Println(nav.Location())

	children := nav.CurrentFiles()
	if len(children) == 0 {
		fmt.Println("  (empty)")
		return nil
	}
	for _, it := range children {
		d := files.Preview(it)
		fmt.Printf("  %-20s %-14s %-6s %-10s (ID: %s)\n", it.Name, d.Type, d.Size, d.Modified, it.ID)
	}
	logger.Debug("listed folder", zap.String("id", id), zap.Int("items", len(children)))
	return nil
}

func catFile(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	if _, err := tree.FindFile(args[0]); err != nil {
		return err
	}
	out := agent.NewToolbox(tree).Execute(agent.ToolReadFile, map[string]any{"fileName": args[0]})
	fmt.Println(out)
	return nil
}

func listApps(cmd *cobra.Command, args []string) error {
	icons := make(map[window.AppID]bool)
	for _, id := range window.DesktopIcons() {
		icons[id] = true
	}
	for _, w := range window.DefaultRegistry() {
		state := "closed"
		if w.IsOpen {
			state = "open"
		}
		shortcut := ""
		if icons[w.ID] {
			shortcut = "desktop icon"
		}
		fmt.Printf("%s %-14s %-16s %-7s %s\n", w.Icon, w.ID, w.Title, state, shortcut)
	}
	return nil
}
