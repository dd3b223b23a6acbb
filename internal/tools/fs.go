// Package tools provides the builtin tool set wired into the default agent
// binary. Callers embedding the orchestrator can register their own tools
// instead; nothing in the core depends on this package.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"heron/internal/orchestrator"
)

const maxReadBytes = 256 * 1024

// resolve joins path onto root and rejects escapes.
func resolve(root, path string) (string, error) {
	full := filepath.Clean(filepath.Join(root, path))
	if full != filepath.Clean(root) && !strings.HasPrefix(full, filepath.Clean(root)+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the working root", path)
	}
	return full, nil
}

func newReadFileTool(root string) orchestrator.Tool {
	return orchestrator.Tool{
		Name:        "read_file",
		Description: "Reads a file. Provide the path relative to the working root.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Path relative to the working root"}},"required":["path"]}`,
		Category:    orchestrator.CategoryReadOnly,
		Fn: func(_ context.Context, args map[string]any) (string, error) {
			path, ok := args["path"].(string)
			if !ok {
				return "", fmt.Errorf("path must be a string")
			}
			full, err := resolve(root, path)
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return "", err
			}
			truncated := false
			if len(data) > maxReadBytes {
				data = data[:maxReadBytes]
				truncated = true
			}
			return marshalResult(map[string]any{
				"path":      path,
				"content":   string(data),
				"truncated": truncated,
			})
		},
	}
}

func newListDirTool(root string) orchestrator.Tool {
	return orchestrator.Tool{
		Name:        "list_dir",
		Description: "Lists the entries of a directory. Directories carry a trailing slash.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Directory path relative to the working root, defaults to the root"}}}`,
		Category:    orchestrator.CategoryReadOnly,
		Fn: func(_ context.Context, args map[string]any) (string, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "."
			}
			full, err := resolve(root, path)
			if err != nil {
				return "", err
			}
			entries, err := os.ReadDir(full)
			if err != nil {
				return "", err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() {
					name += "/"
				}
				names = append(names, name)
			}
			sort.Strings(names)
			return marshalResult(map[string]any{"path": path, "entries": names})
		},
	}
}

func newWriteFileTool(root string) orchestrator.Tool {
	return orchestrator.Tool{
		Name:        "write_file",
		Description: "Writes content to a file, creating parent directories as needed. Overwrites existing content.",
		SchemaJSON:  `{"type":"object","properties":{"path":{"type":"string","description":"Path relative to the working root"},"content":{"type":"string","description":"Full file content to write"}},"required":["path","content"]}`,
		Category:    orchestrator.CategoryWrite,
		Fn: func(_ context.Context, args map[string]any) (string, error) {
			path, ok := args["path"].(string)
			if !ok {
				return "", fmt.Errorf("path must be a string")
			}
			content, ok := args["content"].(string)
			if !ok {
				return "", fmt.Errorf("content must be a string")
			}
			full, err := resolve(root, path)
			if err != nil {
				return "", err
			}
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.WriteFile(full, []byte(content), 0644); err != nil {
				return "", fmt.Errorf("failed to write file: %w", err)
			}
			return marshalResult(map[string]any{"path": path, "bytes": len(content)})
		},
	}
}

func marshalResult(v map[string]any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
