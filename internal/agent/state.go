package agent

import "fmt"

// State is the agent lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateFinished State = "finished"
	StateError    State = "error"
)

// InvalidStateError reports a Run call on an agent that is not idle.
// Finished and errored agents are terminal; callers construct a fresh agent
// to run again.
type InvalidStateError struct {
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot run agent from state %q, must be %q", e.State, StateIdle)
}
