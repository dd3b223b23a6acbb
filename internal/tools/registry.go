package tools

import (
	"heron/internal/orchestrator"
)

// ToolSet selects which builtin tool groups to register.
type ToolSet struct {
	Filesystem bool
	Search     bool
	Execution  bool
}

// DefaultToolSet enables everything.
func DefaultToolSet() ToolSet {
	return ToolSet{Filesystem: true, Search: true, Execution: true}
}

// NewRegistry builds an orchestrator registry with the builtin tools rooted at
// root.
func NewRegistry(root string, set ToolSet) orchestrator.Registry {
	reg := make(orchestrator.Registry)

	if set.Filesystem {
		for _, t := range []orchestrator.Tool{
			newReadFileTool(root),
			newListDirTool(root),
			newWriteFileTool(root),
		} {
			reg[t.Name] = t
		}
	}

	if set.Search {
		t := newGrepTool(root)
		reg[t.Name] = t
	}

	if set.Execution {
		t := newRunCommandTool(root)
		reg[t.Name] = t
	}

	return reg
}
