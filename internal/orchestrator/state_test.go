package orchestrator

import (
	"context"
	"errors"
	"testing"
)

func TestStateMachineHappyPath(t *testing.T) {
	ctx := context.Background()
	m := NewStateMachine(nil)

	if m.State() != StateUserInput {
		t.Fatalf("initial state = %s, want %s", m.State(), StateUserInput)
	}

	steps := []RunState{StateAwaitingModel, StateExecutingTools, StateAwaitingModel, StateDone}
	for _, target := range steps {
		if err := m.TransitionTo(ctx, target); err != nil {
			t.Fatalf("TransitionTo(%s) failed: %v", target, err)
		}
	}

	if !m.IsComplete() {
		t.Error("IsComplete() = false after reaching done")
	}
	if !m.HasUserResponse() {
		t.Error("HasUserResponse() = false after reaching done")
	}
}

func TestStateMachineRejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []RunState // valid setup transitions
		to   RunState
	}{
		{"user input to executing", nil, StateExecutingTools},
		{"user input to done", nil, StateDone},
		{"executing to done", []RunState{StateAwaitingModel, StateExecutingTools}, StateDone},
		{"executing to executing", []RunState{StateAwaitingModel, StateExecutingTools}, StateExecutingTools},
		{"done is terminal", []RunState{StateAwaitingModel, StateDone}, StateAwaitingModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := NewStateMachine(nil)
			for _, s := range tt.path {
				if err := m.TransitionTo(ctx, s); err != nil {
					t.Fatalf("setup transition to %s failed: %v", s, err)
				}
			}
			before := m.State()
			err := m.TransitionTo(ctx, tt.to)
			var ite *InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("TransitionTo(%s) error = %v, want InvalidTransitionError", tt.to, err)
			}
			if m.State() != before {
				t.Errorf("state changed to %s after rejected transition", m.State())
			}
		})
	}
}

func TestStateMachineSelfTransitionIsSilent(t *testing.T) {
	ctx := context.Background()
	rec := &recordingHook{}
	m := NewStateMachine(Hooks{rec})

	if err := m.TransitionTo(ctx, StateAwaitingModel); err != nil {
		t.Fatal(err)
	}
	if err := m.TransitionTo(ctx, StateAwaitingModel); err != nil {
		t.Fatalf("self-transition should be a valid no-op, got %v", err)
	}
	if got := len(rec.transitions); got != 1 {
		t.Errorf("observed %d transitions, want 1 (self-transition must not be reported)", got)
	}
}
