package orchestrator

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc is the signature every tool implementation exposes.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool binds a name, schema, and category to an implementation. The core never
// looks inside Fn; it only needs the category for scheduling and the schema
// for argument validation.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Category    ToolCategory
	Fn          ToolFunc
}

// ValidateArgs validates the provided arguments against the tool's JSON schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	if t.SchemaJSON == "" {
		return nil
	}
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var issues []string
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return &ToolValidationError{ToolName: t.Name, Issues: issues}
	}

	return nil
}

// Registry maps tool names to tools. It is queried once per call for the
// category, which is assumed stable for the request's duration.
type Registry map[string]Tool

// Category returns the declared category for a tool name. Unknown tools
// default to CategoryWrite so they are never merged into a concurrent batch.
func (r Registry) Category(name string) ToolCategory {
	if t, ok := r[name]; ok {
		return t.Category
	}
	return CategoryWrite
}

// Schemas returns the schemas advertised to the backend.
func (r Registry) Schemas() []ToolSchema {
	s := make([]ToolSchema, 0, len(r))
	for _, t := range r {
		s = append(s, ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			JSONSchema:  t.SchemaJSON,
		})
	}
	return s
}

// Invoke validates and executes a single tool call. It implements Invoker.
func (r Registry) Invoke(ctx context.Context, call ToolCallRequest) (string, error) {
	t, ok := r[call.Name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s (available tools: %v)", call.Name, r.names())
	}

	if err := t.ValidateArgs(call.Args); err != nil {
		return "", err
	}

	result, err := t.Fn(ctx, call.Args)
	if err != nil {
		return "", fmt.Errorf("execution failed for tool %s: %w", call.Name, err)
	}

	return result, nil
}

func (r Registry) names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
