package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Scheduler executes tool calls while preserving two invariants:
//
//  1. Within one read-only batch, result order matches request order no
//     matter which call finishes first.
//  2. Read-only batches never overlap temporally with write/execute calls:
//     buffered reads are flushed and completed before any mutating call runs,
//     and mutating calls run strictly one at a time.
//
// A failing call produces a ToolResult carrying the error and never cancels
// its siblings. Once dispatched, a call runs to completion or error; there is
// no mid-flight cancellation surface.
type Scheduler struct {
	invoker     Invoker
	maxParallel int
	retry       RetryPolicy
	hooks       Hooks
}

// NewScheduler creates a scheduler with the given concurrency bound.
// maxParallel <= 0 defaults to the number of available CPU cores.
func NewScheduler(invoker Invoker, maxParallel int, retry RetryPolicy, hooks Hooks) *Scheduler {
	if maxParallel <= 0 {
		maxParallel = runtime.NumCPU()
	}
	return &Scheduler{
		invoker:     invoker,
		maxParallel: maxParallel,
		retry:       retry,
		hooks:       hooks,
	}
}

// ExecuteBatch dispatches a batch of read-only calls concurrently, bounded by
// the scheduler's parallelism limit, and returns results in request order.
// Results are written into a private per-batch slot indexed by request
// position, so concurrent invocations share no mutable state.
//
// The only error return is a dispatch-level failure (context cancelled before
// all calls could be dispatched); individual call failures land in the
// corresponding ToolResult.
func (s *Scheduler) ExecuteBatch(ctx context.Context, calls []ToolCallRequest) ([]ToolResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	s.hooks.OnBatchStart(ctx, len(calls))
	start := time.Now()

	sem := semaphore.NewWeighted(int64(s.maxParallel))
	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Calls already in flight run to completion; the request dies
			// with a dispatch failure either way.
			wg.Wait()
			return nil, &BackendError{Op: "dispatch", Err: err}
		}
		wg.Add(1)
		go func(i int, c ToolCallRequest) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.executeOne(ctx, c)
		}(i, call)
	}

	wg.Wait()
	s.hooks.OnBatchComplete(ctx, len(calls), time.Since(start))
	return results, nil
}

// ExecuteSequential runs a single write/execute call, awaiting full completion
// before the caller may dispatch anything else.
func (s *Scheduler) ExecuteSequential(ctx context.Context, call ToolCallRequest) ToolResult {
	return s.executeOne(ctx, call)
}

// executeOne runs one call with per-category retry and reports it through the
// observer hooks. The returned result always carries the request's call id.
func (s *Scheduler) executeOne(ctx context.Context, call ToolCallRequest) ToolResult {
	s.hooks.OnToolCall(ctx, call)

	maxRetries := 0
	if call.Category == CategoryReadOnly {
		maxRetries = s.retry.MaxRetries
	}

	var out string
	var err error
	for attempt := 0; ; attempt++ {
		out, err = s.invokeRecovered(ctx, call)
		if err == nil || attempt >= maxRetries {
			break
		}
		delay := s.retry.delay(attempt)
		s.hooks.OnRetryAttempt(ctx, call, attempt+1, delay, err)
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
		if ctx.Err() != nil {
			break // keep the last tool error, don't re-invoke after cancellation
		}
	}

	res := ToolResult{CallID: call.ID, Output: out}
	if err != nil {
		res.Err = &ToolExecutionError{Tool: call.Name, CallID: call.ID, Err: err}
	}
	s.hooks.OnToolResult(ctx, call, res)
	return res
}

// invokeRecovered shields the batch from a panicking tool implementation.
func (s *Scheduler) invokeRecovered(ctx context.Context, call ToolCallRequest) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return s.invoker.Invoke(ctx, call)
}
