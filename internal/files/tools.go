package files

import (
	"errors"
	"fmt"
	"strings"
)

// Listing renders every item for the listFiles agent tool.
func (t *Tree) Listing() string {
	var b strings.Builder
	b.WriteString("Here are the current files in the system:\n")
	for i, it := range t.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %s (ID: %s)", strings.ToUpper(string(it.Type)), it.Name, it.ID)
	}
	return b.String()
}

// ReadFileByName renders the readFile agent tool result. A missing file is
// reported in-band so the model can recover.
func (t *Tree) ReadFileByName(name string) string {
	f, err := t.FindFile(name)
	if errors.Is(err, ErrFileNotFound) {
		return fmt.Sprintf("Error: File %q not found.", name)
	}
	return fmt.Sprintf("Content of %s:\n---\n%s\n---", f.Name, f.Content)
}
