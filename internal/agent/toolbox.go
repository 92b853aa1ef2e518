package agent

import (
	"fmt"

	"athlonos/internal/files"
	"athlonos/internal/llm"
	"athlonos/internal/logging"
	"athlonos/internal/metrics"
)

// Tool names the cloud model may call.
const (
	ToolListFiles = "listFiles"
	ToolReadFile  = "readFile"
)

// Toolbox executes the agent's file tools against the mock file system.
type Toolbox struct {
	tree *files.Tree
}

// NewToolbox binds the tools to tree.
func NewToolbox(tree *files.Tree) *Toolbox {
	return &Toolbox{tree: tree}
}

// Definitions implements llm.ToolExecutor.
func (t *Toolbox) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        ToolListFiles,
			Description: "List all files and folders in the simulated file system.",
		},
		{
			Name:        ToolReadFile,
			Description: "Read the content of a specific file by its exact name.",
			Params: []llm.ToolParam{{
				Name:        "fileName",
				Description: `The exact name of the file to read (e.g., "Project_Notes.txt")`,
				Required:    true,
			}},
		},
	}
}

// Execute implements llm.ToolExecutor. Failures come back as text.
func (t *Toolbox) Execute(name string, args map[string]any) string {
	var (
		result string
		ok     = true
	)
	switch name {
	case ToolListFiles:
		result = t.tree.Listing()
	case ToolReadFile:
		fileName, _ := args["fileName"].(string)
		if _, err := t.tree.FindFile(fileName); err != nil {
			ok = false
		}
		result = t.tree.ReadFileByName(fileName)
	default:
		ok = false
		result = "Error: Unknown tool."
	}
	metrics.RecordToolCall(name, ok)
	logging.AgentDebug("tool %s(%s) ok=%v", name, fmt.Sprint(args), ok)
	return result
}
