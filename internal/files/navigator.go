package files

import "strings"

// Navigator tracks the explorer's current folder and file selection.
type Navigator struct {
	tree     *Tree
	current  string
	selected string
}

// NewNavigator starts at the root with nothing selected.
func NewNavigator(t *Tree) *Navigator {
	return &Navigator{tree: t, current: t.Root()}
}

// Tree returns the tree being navigated.
func (n *Navigator) Tree() *Tree { return n.tree }

// CurrentFolder returns the folder being listed.
func (n *Navigator) CurrentFolder() FileItem {
	f, _ := n.tree.Get(n.current)
	return f
}

// CurrentFiles lists the current folder's children in stored order.
func (n *Navigator) CurrentFiles() []FileItem {
	return n.tree.Children(n.current)
}

// Navigate opens a folder or selects a file. Items not in the tree are
// ignored.
func (n *Navigator) Navigate(item FileItem) {
	it, ok := n.tree.Get(item.ID)
	if !ok {
		return
	}
	if it.IsFolder() {
		n.current = it.ID
		n.selected = ""
		return
	}
	n.selected = it.ID
}

// CanGoUp reports whether the current folder has a parent.
func (n *Navigator) CanGoUp() bool {
	return n.CurrentFolder().ParentID != ""
}

// Up moves to the parent folder. At the root it does nothing and returns
// false.
func (n *Navigator) Up() bool {
	parent := n.CurrentFolder().ParentID
	if parent == "" {
		return false
	}
	n.current = parent
	return true
}

// Selected returns the picked file, if any.
func (n *Navigator) Selected() (FileItem, bool) {
	if n.selected == "" {
		return FileItem{}, false
	}
	return n.tree.Get(n.selected)
}

// Location renders the address bar text, e.g. `C:\Documents`.
func (n *Navigator) Location() string {
	path := n.tree.Path(n.current)
	names := make([]string, 0, len(path))
	for _, p := range path {
		names = append(names, p.Name)
	}
	if len(names) == 1 {
		return names[0] + `\`
	}
	return strings.Join(names, `\`)
}

// Details is the explorer's side panel for one item.
type Details struct {
	Name     string
	Type     string
	Size     string
	Modified string
	Content  string
}

// Preview describes an item for the details panel.
func Preview(it FileItem) Details {
	d := Details{
		Name:     it.Name,
		Type:     "Text Document",
		Size:     orDash(it.Size),
		Modified: orDash(it.DateModified),
		Content:  it.Content,
	}
	if it.IsFolder() {
		d.Type = "File folder"
	}
	return d
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
