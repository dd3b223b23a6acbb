package orchestrator

import (
	"context"
)

// Config bounds one request. Zero values fall back to the defaults below.
type Config struct {
	MaxIterations int // model turns allowed before fallback synthesis
	MaxParallel   int // concurrent read-only tool calls; <=0 means NumCPU
	Verbosity     Verbosity
	Retry         RetryPolicy
}

// DefaultConfig returns the bounds used when the caller does not care.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 15,
		Verbosity:     VerbosityNormal,
		Retry:         DefaultRetryPolicy(),
	}
}

// Result is the outcome of one request.
type Result struct {
	FinalText  string
	Completed  bool // the model signalled completion within budget
	IsFallback bool // FinalText was synthesized from counters, not the model
	Counters   IterationContext
	Messages   []Message // the full conversation, for archival and replay
}

// Orchestrator drives the model loop for one request at a time: call the
// backend, process the node, execute tools, repeat until completion or
// budget exhaustion. A single goroutine owns all per-request state; the only
// internal concurrency is inside read-only tool batches.
type Orchestrator struct {
	backend   Backend
	registry  Registry
	processor *NodeProcessor
	recovery  Recovery
	cfg       Config
	hooks     Hooks
}

// New wires an orchestrator. Hooks are optional.
func New(backend Backend, registry Registry, cfg Config, hooks ...Hook) *Orchestrator {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.Verbosity == "" {
		cfg.Verbosity = VerbosityNormal
	}
	hs := Hooks(hooks)
	scheduler := NewScheduler(registry, cfg.MaxParallel, cfg.Retry, hs)
	return &Orchestrator{
		backend:   backend,
		registry:  registry,
		processor: NewNodeProcessor(registry, scheduler, JSONCallParser{}),
		recovery:  Recovery{Verbosity: cfg.Verbosity},
		cfg:       cfg,
		hooks:     hs,
	}
}

// Run processes one user request to completion or budget exhaustion. The
// returned error is non-nil only for infrastructure failures (backend errors,
// cancelled context); a model that never finishes still yields a Result with
// a synthesized fallback answer.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (*Result, error) {
	history := &History{}
	history.Append(Message{Kind: KindUser, Content: prompt})

	machine := NewStateMachine(o.hooks)
	iter := NewIterationContext()

	if err := machine.TransitionTo(ctx, StateAwaitingModel); err != nil {
		return nil, err
	}

	var lastVisible string

	for iter.Iteration < o.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Op: "run", Err: err}
		}

		o.hooks.OnNodeStart(ctx, iter.Iteration+1)
		node, err := o.backend.NextNode(ctx, history.Messages(), o.registry.Schemas())
		if err != nil {
			return nil, &BackendError{Op: "next_node", Err: err}
		}
		iter.Iteration++

		outcome, err := o.processor.Process(ctx, node, history, machine, iter)
		if err != nil {
			return nil, err
		}
		o.hooks.OnNodeProcessed(ctx, iter.Iteration, outcome)

		if outcome.VisibleText != "" {
			lastVisible = outcome.VisibleText
		}

		if outcome.Empty {
			iter.ConsecutiveEmpty++
			iter.EmptyRecoveries++
			o.hooks.OnRecovery(ctx, RecoveryEmptyResponse)
			history.Append(o.recovery.CorrectiveNote(outcome.EmptyReason, iter))
			continue
		}
		iter.ConsecutiveEmpty = 0

		if outcome.CompletionRequested {
			if err := machine.TransitionTo(ctx, StateDone); err != nil {
				return nil, err
			}
			break
		}

		if outcome.ToolCallCount == 0 {
			iter.ConsecutiveNoTool++
			if iter.ConsecutiveNoTool >= unproductiveThreshold {
				iter.NudgesInjected++
				iter.ConsecutiveNoTool = 0
				o.hooks.OnRecovery(ctx, RecoveryUnproductive)
				history.Append(o.recovery.NudgeNote())
			}
		}
	}

	res := &Result{Counters: *iter, Messages: history.Messages()}
	if machine.IsComplete() {
		res.FinalText = lastVisible
		res.Completed = true
	} else {
		o.hooks.OnRecovery(ctx, RecoveryBudgetExhausted)
		res.FinalText = o.recovery.Synthesize(iter)
		res.IsFallback = true
	}
	o.hooks.OnDone(ctx, res)
	return res, nil
}
