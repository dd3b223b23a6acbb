package orchestrator

import (
	"context"
	"encoding/json"
)

// NodeOutcome summarizes what one model turn contributed to the request.
// The orchestrator's recovery policy keys off these fields.
type NodeOutcome struct {
	Empty               bool
	EmptyReason         string // "no_content" or "truncated" when Empty
	ToolCallCount       int
	CompletionRequested bool // marker present with no pending tool work
	MarkerStripped      bool // marker was rejected because tool calls were pending
	VisibleText         string
}

// NodeProcessor turns one backend node into history entries and executed tool
// calls. It owns the batching policy: read-only calls accumulate in the buffer
// and flush before any write/execute call and again at end of node, so a
// mutating call always observes every read that the model requested before it.
type NodeProcessor struct {
	registry  Registry
	scheduler *Scheduler
	parser    NodeParser
}

// NewNodeProcessor wires a processor against a tool registry and scheduler.
func NewNodeProcessor(registry Registry, scheduler *Scheduler, parser NodeParser) *NodeProcessor {
	return &NodeProcessor{
		registry:  registry,
		scheduler: scheduler,
		parser:    parser,
	}
}

// Process handles one node: extracts and categorizes tool calls, applies the
// completion-marker rules, records history, and executes the calls through the
// scheduler. History and counters are only mutated by the single orchestration
// goroutine that calls this.
func (p *NodeProcessor) Process(ctx context.Context, node Node, history *History, machine *StateMachine, iter *IterationContext) (NodeOutcome, error) {
	calls := node.ToolCalls
	if len(calls) == 0 && p.parser != nil {
		calls = p.parser.ParseCalls(node.Text)
	}
	for i := range calls {
		calls[i].Category = p.registry.Category(calls[i].Name)
	}

	markerFound, visible := DetectCompletion(node.Text)

	outcome := NodeOutcome{
		ToolCallCount: len(calls),
		VisibleText:   visible,
	}

	// A completion marker alongside pending tool calls is premature: the
	// model cannot know the outcome of work it has not seen yet. Strip the
	// marker, run the tools, and let a later turn claim completion.
	if markerFound {
		if len(calls) > 0 {
			outcome.MarkerStripped = true
		} else {
			outcome.CompletionRequested = true
		}
	}

	if visible != "" {
		history.Append(Message{Kind: KindAssistant, Content: visible})
	}

	if len(calls) == 0 {
		// A marker turn is a valid completion signal even when the model said
		// nothing else; it must never be mistaken for an empty response.
		if markerFound {
			return outcome, nil
		}
		if visible == "" {
			outcome.Empty = true
			outcome.EmptyReason = "no_content"
		} else if node.Truncated || looksTruncated(visible) {
			outcome.Empty = true
			outcome.EmptyReason = "truncated"
		}
		return outcome, nil
	}

	if err := machine.TransitionTo(ctx, StateExecutingTools); err != nil {
		return outcome, err
	}

	if err := p.executeCalls(ctx, calls, history, iter); err != nil {
		return outcome, err
	}

	iter.ConsecutiveNoTool = 0
	if err := machine.TransitionTo(ctx, StateAwaitingModel); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// executeCalls dispatches the node's calls in issue order: read-only calls
// buffer up and flush as one concurrent batch, write/execute calls flush the
// buffer first and then run alone.
func (p *NodeProcessor) executeCalls(ctx context.Context, calls []ToolCallRequest, history *History, iter *IterationContext) error {
	var buffer ToolCallBuffer

	flush := func() error {
		batch := buffer.Drain()
		if len(batch) == 0 {
			return nil
		}
		results, err := p.scheduler.ExecuteBatch(ctx, batch)
		if err != nil {
			return err
		}
		for i, res := range results {
			p.recordResult(history, batch[i], res)
		}
		return nil
	}

	for _, call := range calls {
		iter.RecordToolCall(call)
		history.Append(Message{
			Kind:    KindToolCall,
			Name:    call.Name,
			CallID:  call.ID,
			Content: marshalArgs(call.Args),
		})

		if call.Category == CategoryReadOnly {
			buffer.Add(call)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		res := p.scheduler.ExecuteSequential(ctx, call)
		p.recordResult(history, call, res)
	}
	return flush()
}

func (p *NodeProcessor) recordResult(history *History, call ToolCallRequest, res ToolResult) {
	msg := Message{
		Kind:    KindToolResult,
		Name:    call.Name,
		CallID:  res.CallID,
		Content: res.Output,
	}
	if res.Err != nil {
		msg.IsError = true
		msg.Content = res.Err.Error()
	}
	history.Append(msg)
}

func marshalArgs(args map[string]any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(b)
}
