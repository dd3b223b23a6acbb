package orchestrator

import (
	"context"
	"time"
)

// Hooks fans events out to every attached hook.
type Hooks []Hook

func (hs Hooks) OnNodeStart(ctx context.Context, iteration int) {
	for _, h := range hs {
		h.OnNodeStart(ctx, iteration)
	}
}
func (hs Hooks) OnNodeProcessed(ctx context.Context, iteration int, outcome NodeOutcome) {
	for _, h := range hs {
		h.OnNodeProcessed(ctx, iteration, outcome)
	}
}
func (hs Hooks) OnBatchStart(ctx context.Context, size int) {
	for _, h := range hs {
		h.OnBatchStart(ctx, size)
	}
}
func (hs Hooks) OnBatchComplete(ctx context.Context, size int, elapsed time.Duration) {
	for _, h := range hs {
		h.OnBatchComplete(ctx, size, elapsed)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, call ToolCallRequest) {
	for _, h := range hs {
		h.OnToolCall(ctx, call)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, call ToolCallRequest, res ToolResult) {
	for _, h := range hs {
		h.OnToolResult(ctx, call, res)
	}
}
func (hs Hooks) OnStateTransition(ctx context.Context, from, to RunState) {
	for _, h := range hs {
		h.OnStateTransition(ctx, from, to)
	}
}
func (hs Hooks) OnRecovery(ctx context.Context, kind RecoveryKind) {
	for _, h := range hs {
		h.OnRecovery(ctx, kind)
	}
}
func (hs Hooks) OnRetryAttempt(ctx context.Context, call ToolCallRequest, attempt int, delay time.Duration, err error) {
	for _, h := range hs {
		h.OnRetryAttempt(ctx, call, attempt, delay, err)
	}
}
func (hs Hooks) OnDone(ctx context.Context, res *Result) {
	for _, h := range hs {
		h.OnDone(ctx, res)
	}
}
