package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"heron/internal/orchestrator"
)

const (
	commandTimeout = 60 * time.Second
	maxOutputBytes = 64 * 1024
)

func newRunCommandTool(root string) orchestrator.Tool {
	return orchestrator.Tool{
		Name:        "run_command",
		Description: "Runs a shell command in the working root and returns stdout, stderr, and the exit code.",
		SchemaJSON:  `{"type":"object","properties":{"command":{"type":"string","description":"Shell command to run"}},"required":["command"]}`,
		Category:    orchestrator.CategoryExecute,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			command, ok := args["command"].(string)
			if !ok {
				return "", fmt.Errorf("command must be a string")
			}

			ctx, cancel := context.WithTimeout(ctx, commandTimeout)
			defer cancel()

			cmd := exec.CommandContext(ctx, "sh", "-c", command)
			cmd.Dir = root

			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			runErr := cmd.Run()
			code := 0
			if exitErr, ok := runErr.(*exec.ExitError); ok {
				code = exitErr.ExitCode()
			} else if runErr != nil {
				return "", fmt.Errorf("command failed to start: %w", runErr)
			}
			if ctx.Err() == context.DeadlineExceeded {
				return "", fmt.Errorf("command timed out after %s", commandTimeout)
			}

			return marshalResult(map[string]any{
				"command":   command,
				"exit_code": code,
				"stdout":    clip(stdout.String()),
				"stderr":    clip(stderr.String()),
			})
		},
	}
}

func clip(s string) string {
	if len(s) > maxOutputBytes {
		return s[:maxOutputBytes] + "\n... output truncated ..."
	}
	return s
}
