// Package files implements the desktop's mock file system: a static tree of
// folders and text files, a navigator over it, and the lookups the agent's
// tools use.
package files

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"athlonos/internal/logging"
)

// ItemType distinguishes folders from files.
type ItemType string

const (
	TypeFile   ItemType = "file"
	TypeFolder ItemType = "folder"
)

// FileItem is one node of the tree. ParentID is empty only for the root.
type FileItem struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Type         ItemType `yaml:"type" json:"type"`
	ParentID     string   `yaml:"parent_id,omitempty" json:"parentId,omitempty"`
	Content      string   `yaml:"content,omitempty" json:"content,omitempty"`
	Size         string   `yaml:"size,omitempty" json:"size,omitempty"`
	DateModified string   `yaml:"date_modified,omitempty" json:"dateModified,omitempty"`
}

// IsFolder reports whether the item can be descended into.
func (f FileItem) IsFolder() bool { return f.Type == TypeFolder }

var (
	// ErrInvalidTree wraps every structural problem found by NewTree.
	ErrInvalidTree = errors.New("invalid file tree")
	// ErrFileNotFound is returned by name lookups that match no file.
	ErrFileNotFound = errors.New("file not found")
)

// Tree is an immutable, validated file collection.
type Tree struct {
	items    []FileItem
	byID     map[string]int
	children map[string][]int
	root     string
}

// NewTree validates items and indexes them. Items keep their given order.
func NewTree(items []FileItem) (*Tree, error) {
	t := &Tree{
		items:    append([]FileItem(nil), items...),
		byID:     make(map[string]int, len(items)),
		children: make(map[string][]int),
	}

	for i, it := range t.items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalidTree, i)
		}
		if it.Type != TypeFile && it.Type != TypeFolder {
			return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidTree, it.ID, it.Type)
		}
		if _, dup := t.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidTree, it.ID)
		}
		t.byID[it.ID] = i
		if it.ParentID == "" {
			if t.root != "" {
				return nil, fmt.Errorf("%w: both %s and %s are roots", ErrInvalidTree, t.root, it.ID)
			}
			t.root = it.ID
		}
	}
	if t.root == "" {
		return nil, fmt.Errorf("%w: no root", ErrInvalidTree)
	}
	if !t.items[t.byID[t.root]].IsFolder() {
		return nil, fmt.Errorf("%w: root %s is not a folder", ErrInvalidTree, t.root)
	}

	for i, it := range t.items {
		if it.ParentID == "" {
			continue
		}
		pi, ok := t.byID[it.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s has missing parent %s", ErrInvalidTree, it.ID, it.ParentID)
		}
		if !t.items[pi].IsFolder() {
			return nil, fmt.Errorf("%w: parent %s of %s is a file", ErrInvalidTree, it.ParentID, it.ID)
		}
		t.children[it.ParentID] = append(t.children[it.ParentID], i)
	}

	// With one root and every parent resolved, an item is on a cycle iff
	// walking up never reaches the root.
	for _, it := range t.items {
		seen := map[string]bool{}
		for cur := it.ID; cur != t.root; cur = t.items[t.byID[cur]].ParentID {
			if seen[cur] {
				return nil, fmt.Errorf("%w: cycle through %s", ErrInvalidTree, cur)
			}
			seen[cur] = true
		}
	}

	return t, nil
}

// LoadTree reads a YAML list of items from path. An empty path yields the
// built-in seed.
func LoadTree(path string) (*Tree, error) {
	if path == "" {
		return NewTree(DefaultItems())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file seed: %w", err)
	}
	var items []FileItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse file seed: %w", err)
	}
	t, err := NewTree(items)
	if err != nil {
		return nil, err
	}
	logging.Files("loaded %d items from %s", len(items), path)
	return t, nil
}

// Root returns the root folder id.
func (t *Tree) Root() string { return t.root }

// Get returns the item with the given id.
func (t *Tree) Get(id string) (FileItem, bool) {
	i, ok := t.byID[id]
	if !ok {
		return FileItem{}, false
	}
	return t.items[i], true
}

// Children returns the direct children of parentID in stored order.
func (t *Tree) Children(parentID string) []FileItem {
	idx := t.children[parentID]
	out := make([]FileItem, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.items[i])
	}
	return out
}

// All returns every item in stored order.
func (t *Tree) All() []FileItem {
	return append([]FileItem(nil), t.items...)
}

// FindFile returns the first file (never a folder) with exactly this name.
func (t *Tree) FindFile(name string) (FileItem, error) {
	for _, it := range t.items {
		if it.Type == TypeFile && it.Name == name {
			return it, nil
		}
	}
	return FileItem{}, fmt.Errorf("%w: %q", ErrFileNotFound, name)
}

// Path returns the ancestors of id from the root down, id included.
func (t *Tree) Path(id string) []FileItem {
	var rev []FileItem
	for cur, ok := t.Get(id); ok; cur, ok = t.Get(cur.ParentID) {
		rev = append(rev, cur)
		if cur.ParentID == "" {
			break
		}
	}
	out := make([]FileItem, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
