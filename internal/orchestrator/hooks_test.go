package orchestrator

import (
	"context"
	"sync"
	"time"
)

// recordingHook captures events for assertions. Tool events can arrive from
// batch goroutines, so access is synchronized.
type recordingHook struct {
	NopHook

	mu          sync.Mutex
	transitions [][2]RunState
	recoveries  []RecoveryKind
	toolCalls   []string
	retries     int
	batchSizes  []int
	doneResults []*Result
}

func (h *recordingHook) OnStateTransition(_ context.Context, from, to RunState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transitions = append(h.transitions, [2]RunState{from, to})
}

func (h *recordingHook) OnRecovery(_ context.Context, kind RecoveryKind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recoveries = append(h.recoveries, kind)
}

func (h *recordingHook) OnToolCall(_ context.Context, call ToolCallRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toolCalls = append(h.toolCalls, call.Name)
}

func (h *recordingHook) OnRetryAttempt(_ context.Context, _ ToolCallRequest, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retries++
}

func (h *recordingHook) OnBatchStart(_ context.Context, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batchSizes = append(h.batchSizes, size)
}

func (h *recordingHook) OnDone(_ context.Context, res *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doneResults = append(h.doneResults, res)
}

func (h *recordingHook) recoveryKinds() []RecoveryKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RecoveryKind, len(h.recoveries))
	copy(out, h.recoveries)
	return out
}
