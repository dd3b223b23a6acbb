package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"heron/internal/orchestrator"
)

const (
	grepTimeout    = 10 * time.Second
	grepMaxResults = 100
)

type grepMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// rg --json emits one JSON object per line; only "match" entries matter.
type rgMessage struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber int `json:"line_number"`
	} `json:"data"`
}

func newGrepTool(root string) orchestrator.Tool {
	return orchestrator.Tool{
		Name:        "grep",
		Description: "Regex code search using ripgrep. Returns matching lines with file paths and line numbers.",
		SchemaJSON:  `{"type":"object","properties":{"pattern":{"type":"string","description":"Regex pattern to search for"},"path":{"type":"string","description":"Optional file or directory to search in"},"case_insensitive":{"type":"boolean","description":"Optional case-insensitive search"}},"required":["pattern"]}`,
		Category:    orchestrator.CategoryReadOnly,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			pattern, ok := args["pattern"].(string)
			if !ok {
				return "", fmt.Errorf("pattern must be a string")
			}
			target := "."
			if p, ok := args["path"].(string); ok && p != "" {
				target = p
			}

			rgArgs := []string{"--json"}
			if ci, ok := args["case_insensitive"].(bool); ok && ci {
				rgArgs = append(rgArgs, "-i")
			}
			rgArgs = append(rgArgs, "-e", pattern, target)

			ctx, cancel := context.WithTimeout(ctx, grepTimeout)
			defer cancel()

			cmd := exec.CommandContext(ctx, "rg", rgArgs...)
			cmd.Dir = root
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			if err := cmd.Run(); err != nil {
				// Exit code 1 means no matches.
				if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
					return marshalResult(map[string]any{"pattern": pattern, "results": []grepMatch{}, "count": 0})
				}
				return "", fmt.Errorf("grep failed: %v, stderr: %s", err, stderr.String())
			}

			var results []grepMatch
			for _, line := range strings.Split(stdout.String(), "\n") {
				if line == "" {
					continue
				}
				var msg rgMessage
				if err := json.Unmarshal([]byte(line), &msg); err != nil || msg.Type != "match" {
					continue
				}
				results = append(results, grepMatch{
					Path:    msg.Data.Path.Text,
					Line:    msg.Data.LineNumber,
					Content: strings.TrimSpace(msg.Data.Lines.Text),
				})
			}

			truncated := false
			if len(results) > grepMaxResults {
				results = results[:grepMaxResults]
				truncated = true
			}
			return marshalResult(map[string]any{
				"pattern":   pattern,
				"results":   results,
				"count":     len(results),
				"truncated": truncated,
			})
		},
	}
}
