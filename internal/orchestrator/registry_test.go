package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testRegistry() Registry {
	return Registry{
		"read_file": {
			Name:     "read_file",
			Category: CategoryReadOnly,
			SchemaJSON: `{
				"type": "object",
				"properties": {"path": {"type": "string"}},
				"required": ["path"]
			}`,
			Fn: func(_ context.Context, args map[string]any) (string, error) {
				return "contents of " + args["path"].(string), nil
			},
		},
		"run_command": {
			Name:     "run_command",
			Category: CategoryExecute,
			Fn: func(_ context.Context, _ map[string]any) (string, error) {
				return "exit 0", nil
			},
		},
	}
}

func TestRegistryInvoke(t *testing.T) {
	r := testRegistry()
	out, err := r.Invoke(context.Background(), ToolCallRequest{
		Name: "read_file",
		Args: map[string]any{"path": "go.mod"},
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out != "contents of go.mod" {
		t.Errorf("output = %q", out)
	}
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	r := testRegistry()
	_, err := r.Invoke(context.Background(), ToolCallRequest{Name: "nonexistent"})
	if err == nil || !strings.Contains(err.Error(), "tool not found") {
		t.Fatalf("err = %v, want tool not found", err)
	}
}

func TestRegistryInvokeValidatesArgs(t *testing.T) {
	r := testRegistry()
	_, err := r.Invoke(context.Background(), ToolCallRequest{
		Name: "read_file",
		Args: map[string]any{"path": 42},
	})
	var ve *ToolValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ToolValidationError", err)
	}
	if ve.ToolName != "read_file" {
		t.Errorf("ToolName = %s", ve.ToolName)
	}
}

func TestRegistryCategoryDefaultsToWrite(t *testing.T) {
	r := testRegistry()
	if got := r.Category("read_file"); got != CategoryReadOnly {
		t.Errorf("Category(read_file) = %s", got)
	}
	// Unknown tools must never land in a concurrent batch.
	if got := r.Category("mystery"); got != CategoryWrite {
		t.Errorf("Category(mystery) = %s, want %s", got, CategoryWrite)
	}
}

func TestRegistrySchemas(t *testing.T) {
	schemas := testRegistry().Schemas()
	if len(schemas) != 2 {
		t.Fatalf("got %d schemas, want 2", len(schemas))
	}
	byName := map[string]ToolSchema{}
	for _, s := range schemas {
		byName[s.Name] = s
	}
	if _, ok := byName["read_file"]; !ok {
		t.Error("read_file schema missing")
	}
	if byName["run_command"].JSONSchema != "" {
		t.Error("run_command should advertise an empty schema")
	}
}
