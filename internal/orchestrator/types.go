// Package orchestrator drives a bounded number of model iterations for one
// user request: it extracts tool calls from each model turn, schedules their
// execution, tracks completion through an explicit state machine, and recovers
// from degenerate model behavior.
package orchestrator

import (
	"context"
	"fmt"
)

// MessageKind identifies the role of one conversation entry.
type MessageKind string

const (
	KindUser       MessageKind = "user"
	KindAssistant  MessageKind = "assistant"
	KindToolCall   MessageKind = "tool-call"
	KindToolResult MessageKind = "tool-result"
	KindSystemNote MessageKind = "system-note"
)

// Message is one immutable conversation turn. The history owns messages and is
// append-only for the duration of a request.
type Message struct {
	Kind    MessageKind
	Content string // visible text; marshaled arguments for tool-call entries
	Name    string // tool name for tool-call / tool-result entries
	CallID  string // correlates tool-call and tool-result entries
	IsError bool   // set on tool-result entries that carry an error
}

// Validate checks that the message kind is known.
func (m Message) Validate() error {
	switch m.Kind {
	case KindUser, KindAssistant, KindToolCall, KindToolResult, KindSystemNote:
	default:
		return fmt.Errorf("invalid message kind: %s", m.Kind)
	}
	if (m.Kind == KindToolCall || m.Kind == KindToolResult) && m.CallID == "" {
		return fmt.Errorf("%s messages must carry a call id", m.Kind)
	}
	return nil
}

// History is the append-only conversation record for one request.
type History struct {
	msgs []Message
}

// Append adds a message to the history.
func (h *History) Append(msg Message) { h.msgs = append(h.msgs, msg) }

// Messages returns the recorded messages. Callers must treat the slice as
// read-only.
func (h *History) Messages() []Message { return h.msgs }

// Len returns the number of recorded messages.
func (h *History) Len() int { return len(h.msgs) }

// ToolCategory determines how the scheduler treats a call: read-only calls are
// batched and dispatched concurrently, write and execute calls run one at a
// time with all buffered reads flushed first.
type ToolCategory string

const (
	CategoryReadOnly ToolCategory = "read_only"
	CategoryWrite    ToolCategory = "write"
	CategoryExecute  ToolCategory = "execute"
)

// ToolCallRequest is one tool invocation requested by the model. Produced by
// the node processor, consumed exactly once by the scheduler.
type ToolCallRequest struct {
	ID       string
	Name     string
	Args     map[string]any
	Category ToolCategory
}

// ToolResult correlates 1:1 with a dispatched ToolCallRequest. Every
// dispatched request yields exactly one result, success or error, even when
// the tool implementation panics.
type ToolResult struct {
	CallID string
	Output string
	Err    error
}

// Node is one turn produced by the backend: text plus zero or more tool-call
// requests. Category on the requests is resolved later against the registry.
type Node struct {
	Text      string
	Truncated bool // backend-reported mid-token cutoff
	ToolCalls []ToolCallRequest
}

// ToolSchema describes one tool to the backend for function calling.
type ToolSchema struct {
	Name        string
	Description string
	JSONSchema  string // raw JSON schema string
}

// Backend produces the next model turn given the conversation so far. One call
// returns one node; how it is produced (streaming or batch) is the backend's
// concern.
type Backend interface {
	NextNode(ctx context.Context, history []Message, tools []ToolSchema) (Node, error)
}

// Invoker executes a named tool and returns its output. Implemented by
// Registry; the scheduler only depends on this.
type Invoker interface {
	Invoke(ctx context.Context, call ToolCallRequest) (string, error)
}
