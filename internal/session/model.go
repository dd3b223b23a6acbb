package session

import (
	"time"

	"heron/internal/orchestrator"
)

// Record is one archived request: the prompt, the full conversation, and the
// outcome counters.
type Record struct {
	ID         string                 `json:"id"`
	Prompt     string                 `json:"prompt"`
	FinalText  string                 `json:"final_text"`
	Completed  bool                   `json:"completed"`
	IsFallback bool                   `json:"is_fallback"`
	Iterations int                    `json:"iterations"`
	ToolCalls  int                    `json:"tool_calls"`
	CreatedAt  time.Time              `json:"created_at"`
	Messages   []orchestrator.Message `json:"messages"`
}

// Meta is a lightweight representation for listing.
type Meta struct {
	ID         string    `json:"id"`
	Prompt     string    `json:"prompt"`
	Completed  bool      `json:"completed"`
	IsFallback bool      `json:"is_fallback"`
	Iterations int       `json:"iterations"`
	CreatedAt  time.Time `json:"created_at"`
}
