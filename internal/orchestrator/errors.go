// Error taxonomy for the orchestration core. Recoverable conditions (empty
// responses, unproductive stretches, budget exhaustion) are not errors and are
// handled by the recovery controller; only backend and dispatch-level failures
// surface to callers.

package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// BackendError indicates the backend interface itself failed (network,
// malformed protocol). It is fatal for the request: no part of this core can
// substitute for the backend.
type BackendError struct {
	Op  string // "next_node", "dispatch"
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend failure during %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// ToolExecutionError captures a single failed tool call. It lives inside the
// call's ToolResult and never aborts a batch or the loop.
type ToolExecutionError struct {
	Tool   string
	CallID string
	Err    error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s (call %s) failed: %v", e.Tool, e.CallID, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// ToolValidationError indicates that tool arguments failed JSON schema
// validation before dispatch.
type ToolValidationError struct {
	ToolName string
	Issues   []string
}

func (e *ToolValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Issues, "; "))
}

// InvalidTransitionError is raised when a state-machine transition that the
// rules forbid is attempted.
type InvalidTransitionError struct {
	From RunState
	To   RunState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}
