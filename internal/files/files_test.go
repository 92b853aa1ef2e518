package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewTree(DefaultItems())
	require.NoError(t, err)
	return tree
}

func ids(items []FileItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// =============================================================================
// TREE VALIDATION
// =============================================================================

func TestNewTree_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		items []FileItem
	}{
		{"empty", nil},
		{"two roots", []FileItem{
			{ID: "a", Name: "A", Type: TypeFolder},
			{ID: "b", Name: "B", Type: TypeFolder},
		}},
		{"duplicate id", []FileItem{
			{ID: "a", Name: "A", Type: TypeFolder},
			{ID: "a", Name: "A2", Type: TypeFile, ParentID: "a"},
		}},
		{"missing parent", []FileItem{
			{ID: "a", Name: "A", Type: TypeFolder},
			{ID: "b", Name: "B", Type: TypeFile, ParentID: "ghost"},
		}},
		{"file parent", []FileItem{
			{ID: "a", Name: "A", Type: TypeFolder},
			{ID: "f", Name: "f.txt", Type: TypeFile, ParentID: "a"},
			{ID: "g", Name: "g.txt", Type: TypeFile, ParentID: "f"},
		}},
		{"cycle", []FileItem{
			{ID: "a", Name: "A", Type: TypeFolder},
			{ID: "x", Name: "X", Type: TypeFolder, ParentID: "y"},
			{ID: "y", Name: "Y", Type: TypeFolder, ParentID: "x"},
		}},
		{"unknown type", []FileItem{
			{ID: "a", Name: "A", Type: "symlink"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.items)
			assert.ErrorIs(t, err, ErrInvalidTree)
		})
	}
}

func TestLoadTree_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := `
- id: root
  name: "D:"
  type: folder
- id: readme
  name: README.md
  type: file
  parent_id: root
  content: hello
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0644))

	tree, err := LoadTree(path)
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Root())
	f, err := tree.FindFile("README.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", f.Content)
}

func TestLoadTree_DefaultsWhenNoPath(t *testing.T) {
	tree, err := LoadTree("")
	require.NoError(t, err)
	assert.Len(t, tree.All(), len(DefaultItems()))
}

// =============================================================================
// NAVIGATOR
// =============================================================================

func TestCurrentFiles_ExactlyChildrenInStoredOrder(t *testing.T) {
	tree := seedTree(t)
	nav := NewNavigator(tree)

	assert.Equal(t, []string{"docs", "pics", "budget"}, ids(nav.CurrentFiles()))

	for _, it := range tree.All() {
		if !it.IsFolder() {
			continue
		}
		var want []string
		for _, c := range tree.All() {
			if c.ParentID == it.ID {
				want = append(want, c.ID)
			}
		}
		got := ids(tree.Children(it.ID))
		if len(want) == 0 {
			assert.Empty(t, got, it.ID)
			continue
		}
		assert.Equal(t, want, got, it.ID)
	}
}

func TestNavigate(t *testing.T) {
	nav := NewNavigator(seedTree(t))

	budget, _ := nav.Tree().Get("budget")
	nav.Navigate(budget)
	sel, ok := nav.Selected()
	require.True(t, ok)
	assert.Equal(t, "budget", sel.ID)
	assert.Equal(t, "root", nav.CurrentFolder().ID, "selecting a file does not navigate")

	docs, _ := nav.Tree().Get("docs")
	nav.Navigate(docs)
	assert.Equal(t, "docs", nav.CurrentFolder().ID)
	_, ok = nav.Selected()
	assert.False(t, ok, "descending clears the selection")
	assert.Equal(t, []string{"notes", "resume"}, ids(nav.CurrentFiles()))

	nav.Navigate(FileItem{ID: "nope", Type: TypeFolder})
	assert.Equal(t, "docs", nav.CurrentFolder().ID)
}

func TestUp(t *testing.T) {
	nav := NewNavigator(seedTree(t))

	assert.False(t, nav.CanGoUp())
	assert.False(t, nav.Up())
	assert.Equal(t, "root", nav.CurrentFolder().ID)

	docs, _ := nav.Tree().Get("docs")
	nav.Navigate(docs)
	assert.True(t, nav.CanGoUp())
	assert.True(t, nav.Up())
	assert.Equal(t, "root", nav.CurrentFolder().ID)
}

func TestSelected_EmptyBeforePick(t *testing.T) {
	nav := NewNavigator(seedTree(t))
	_, ok := nav.Selected()
	assert.False(t, ok)
}

func TestLocation(t *testing.T) {
	nav := NewNavigator(seedTree(t))
	assert.Equal(t, `C:\`, nav.Location())

	docs, _ := nav.Tree().Get("docs")
	nav.Navigate(docs)
	assert.Equal(t, `C:\Documents`, nav.Location())
}

func TestPreview(t *testing.T) {
	tree := seedTree(t)

	notes, _ := tree.Get("notes")
	d := Preview(notes)
	assert.Equal(t, "Text Document", d.Type)
	assert.Equal(t, "2 KB", d.Size)
	assert.Equal(t, "2023-10-27", d.Modified)
	assert.True(t, strings.HasPrefix(d.Content, "1. Integration"))

	root, _ := tree.Get("root")
	d = Preview(root)
	assert.Equal(t, "File folder", d.Type)
	assert.Equal(t, "--", d.Size)
	assert.Equal(t, "--", d.Modified)
}

// =============================================================================
// TOOL HELPERS
// =============================================================================

func TestListing(t *testing.T) {
	out := seedTree(t).Listing()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 1+len(DefaultItems()))
	assert.Equal(t, "Here are the current files in the system:", lines[0])
	assert.Equal(t, "[FOLDER] C: (ID: root)", lines[1])
	assert.Equal(t, "[FILE] Budget_2024.txt (ID: budget)", lines[6])
}

func TestReadFileByName(t *testing.T) {
	tree := seedTree(t)

	assert.Equal(t,
		"Content of Budget_2024.txt:\n---\nQ1: $5000\nQ2: $7000\nQ3: $6000\n---",
		tree.ReadFileByName("Budget_2024.txt"))
	assert.Equal(t, `Error: File "Documents" not found.`, tree.ReadFileByName("Documents"), "folders never match")
	assert.Equal(t, `Error: File "nope.txt" not found.`, tree.ReadFileByName("nope.txt"))
}
