package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
)

// NodeParser extracts tool calls that the backend failed to surface as
// structured calls. Implementations only run when a node carries no
// structured tool calls.
type NodeParser interface {
	ParseCalls(text string) []ToolCallRequest
}

// JSONCallParser scans assistant text for inline JSON objects of the shape
// {"tool": "...", "args": {...}} and recovers them as tool calls. Models
// occasionally emit calls this way instead of using the native tool channel.
type JSONCallParser struct{}

type inlineCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ParseCalls returns recovered calls in the order they appear in text.
// Candidates that cannot be decoded even after repair are skipped.
func (JSONCallParser) ParseCalls(text string) []ToolCallRequest {
	var calls []ToolCallRequest
	for _, candidate := range balancedObjects(text) {
		// Cheap precheck; quoting may be broken, so match the bare key.
		if !strings.Contains(candidate, "tool") {
			continue
		}
		var ic inlineCall
		if err := json.Unmarshal([]byte(candidate), &ic); err != nil {
			repaired, repErr := jsonrepair.JSONRepair(candidate)
			if repErr != nil {
				continue
			}
			if err := json.Unmarshal([]byte(repaired), &ic); err != nil {
				continue
			}
		}
		if ic.Tool == "" {
			continue
		}
		if ic.Args == nil {
			ic.Args = map[string]any{}
		}
		calls = append(calls, ToolCallRequest{
			ID:   "recovered_" + uuid.NewString(),
			Name: ic.Tool,
			Args: ic.Args,
		})
	}
	return calls
}

// balancedObjects returns every top-level brace-balanced substring of text.
// Braces inside JSON strings are ignored.
func balancedObjects(text string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, text[start:i+1])
				start = -1
			}
		}
	}
	return objects
}
