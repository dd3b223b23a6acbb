package orchestrator

import (
	"context"
	"time"
)

// RecoveryKind labels which recovery policy fired.
type RecoveryKind string

const (
	RecoveryEmptyResponse   RecoveryKind = "empty_response"
	RecoveryUnproductive    RecoveryKind = "unproductive_loop"
	RecoveryBudgetExhausted RecoveryKind = "budget_exhausted"
)

// Hook receives structured events from the core. The core functions correctly
// with no hook attached; hooks are for UI and logging layers and are never
// part of the correctness contract.
type Hook interface {
	OnNodeStart(ctx context.Context, iteration int)
	OnNodeProcessed(ctx context.Context, iteration int, outcome NodeOutcome)
	OnBatchStart(ctx context.Context, size int)
	OnBatchComplete(ctx context.Context, size int, elapsed time.Duration)
	OnToolCall(ctx context.Context, call ToolCallRequest)
	OnToolResult(ctx context.Context, call ToolCallRequest, res ToolResult)
	OnStateTransition(ctx context.Context, from, to RunState)
	OnRecovery(ctx context.Context, kind RecoveryKind)
	OnRetryAttempt(ctx context.Context, call ToolCallRequest, attempt int, delay time.Duration, err error)
	OnDone(ctx context.Context, res *Result)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnNodeStart(context.Context, int)                                        {}
func (NopHook) OnNodeProcessed(context.Context, int, NodeOutcome)                       {}
func (NopHook) OnBatchStart(context.Context, int)                                       {}
func (NopHook) OnBatchComplete(context.Context, int, time.Duration)                     {}
func (NopHook) OnToolCall(context.Context, ToolCallRequest)                             {}
func (NopHook) OnToolResult(context.Context, ToolCallRequest, ToolResult)               {}
func (NopHook) OnStateTransition(context.Context, RunState, RunState)                   {}
func (NopHook) OnRecovery(context.Context, RecoveryKind)                                {}
func (NopHook) OnRetryAttempt(context.Context, ToolCallRequest, int, time.Duration, error) {}
func (NopHook) OnDone(context.Context, *Result)                                         {}
