package orchestrator

import "context"

// RunState is the completion state of one request. Transitions are the only
// way to reach or leave StateDone.
type RunState string

const (
	// StateUserInput is the initial pseudo-state before the first model call.
	StateUserInput RunState = "user_input"
	// StateAwaitingModel means the loop is waiting for the backend's next node.
	StateAwaitingModel RunState = "awaiting_model"
	// StateExecutingTools means tool calls from the current node are in flight.
	StateExecutingTools RunState = "executing_tools"
	// StateDone is terminal: the model signalled completion with no pending tools.
	StateDone RunState = "done"
)

// transitionRules defines the valid transitions. The AwaitingModel self-loop
// covers plain conversational turns without tool calls or a completion marker.
var transitionRules = map[RunState]map[RunState]bool{
	StateUserInput:      {StateAwaitingModel: true},
	StateAwaitingModel:  {StateAwaitingModel: true, StateExecutingTools: true, StateDone: true},
	StateExecutingTools: {StateAwaitingModel: true},
	StateDone:           {},
}

// StateMachine tracks run completion. The enum is the single source of truth;
// the boolean queries below are pure projections and are never stored.
//
// Per the concurrency model, only the orchestration goroutine mutates the
// machine, so no locking is needed here.
type StateMachine struct {
	state RunState
	hooks Hooks
}

// NewStateMachine returns a machine in the UserInput pseudo-state.
func NewStateMachine(hooks Hooks) *StateMachine {
	return &StateMachine{state: StateUserInput, hooks: hooks}
}

// State returns the current state.
func (m *StateMachine) State() RunState { return m.state }

// CanTransitionTo reports whether the rules allow moving to target.
func (m *StateMachine) CanTransitionTo(target RunState) bool {
	return transitionRules[m.state][target]
}

// TransitionTo moves the machine to a new state, notifying observers.
// Self-transitions are valid no-ops and are not reported.
func (m *StateMachine) TransitionTo(ctx context.Context, target RunState) error {
	if !transitionRules[m.state][target] {
		return &InvalidTransitionError{From: m.state, To: target}
	}
	if m.state == target {
		return nil
	}
	from := m.state
	m.state = target
	m.hooks.OnStateTransition(ctx, from, target)
	return nil
}

// IsComplete reports whether the run reached its terminal state.
func (m *StateMachine) IsComplete() bool { return m.state == StateDone }

// HasUserResponse reports whether the run has produced a final user-visible
// answer. Callers that historically read a separate flag use this projection;
// it is derived from the state and cannot drift from it.
func (m *StateMachine) HasUserResponse() bool { return m.state == StateDone }
