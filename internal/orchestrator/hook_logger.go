package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggerHook renders core events through zerolog.
type LoggerHook struct {
	L zerolog.Logger
}

func (h LoggerHook) OnNodeStart(_ context.Context, iteration int) {
	h.L.Debug().Int("iteration", iteration).Msg("node start")
}

func (h LoggerHook) OnNodeProcessed(_ context.Context, iteration int, outcome NodeOutcome) {
	evt := h.L.Debug().
		Int("iteration", iteration).
		Int("tool_calls", outcome.ToolCallCount).
		Bool("completion", outcome.CompletionRequested)
	if outcome.Empty {
		evt = evt.Str("empty_reason", outcome.EmptyReason)
	}
	if outcome.MarkerStripped {
		evt = evt.Bool("premature_completion", true)
	}
	evt.Msg("node processed")
}

func (h LoggerHook) OnBatchStart(_ context.Context, size int) {
	h.L.Debug().Int("size", size).Msg("read batch dispatched")
}

func (h LoggerHook) OnBatchComplete(_ context.Context, size int, elapsed time.Duration) {
	h.L.Info().Int("size", size).Dur("elapsed", elapsed).Msg("read batch completed")
}

func (h LoggerHook) OnToolCall(_ context.Context, call ToolCallRequest) {
	h.L.Debug().Str("tool", call.Name).Str("call_id", call.ID).Str("category", string(call.Category)).Msg("tool call")
}

func (h LoggerHook) OnToolResult(_ context.Context, call ToolCallRequest, res ToolResult) {
	if res.Err != nil {
		h.L.Warn().Str("tool", call.Name).Str("call_id", res.CallID).Err(res.Err).Msg("tool failed")
		return
	}
	preview := res.Output
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	h.L.Debug().Str("tool", call.Name).Str("call_id", res.CallID).Str("output", preview).Msg("tool result")
}

func (h LoggerHook) OnStateTransition(_ context.Context, from, to RunState) {
	h.L.Debug().Str("from", string(from)).Str("to", string(to)).Msg("state transition")
}

func (h LoggerHook) OnRecovery(_ context.Context, kind RecoveryKind) {
	h.L.Warn().Str("kind", string(kind)).Msg("recovery triggered")
}

func (h LoggerHook) OnRetryAttempt(_ context.Context, call ToolCallRequest, attempt int, delay time.Duration, err error) {
	h.L.Warn().Str("tool", call.Name).Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("tool retry")
}

func (h LoggerHook) OnDone(_ context.Context, res *Result) {
	h.L.Info().
		Bool("completed", res.Completed).
		Bool("fallback", res.IsFallback).
		Int("iterations", res.Counters.Iteration).
		Int("tool_calls", res.Counters.TotalToolCalls).
		Msg("request finished")
}
