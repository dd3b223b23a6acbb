package orchestrator

// ToolCallBuffer accumulates read-only tool-call requests until a flush point.
// No execution happens here; pure accumulation keeps the scheduling policy
// testable without any tool.
type ToolCallBuffer struct {
	pending []ToolCallRequest
}

// Add appends a request to the buffer.
func (b *ToolCallBuffer) Add(req ToolCallRequest) {
	b.pending = append(b.pending, req)
}

// Drain empties the buffer and returns its contents in insertion order.
func (b *ToolCallBuffer) Drain() []ToolCallRequest {
	out := b.pending
	b.pending = nil
	return out
}

// Len returns the number of buffered requests.
func (b *ToolCallBuffer) Len() int { return len(b.pending) }

// IsEmpty reports whether the buffer holds no requests.
func (b *ToolCallBuffer) IsEmpty() bool { return len(b.pending) == 0 }
