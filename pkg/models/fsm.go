package models

import "fmt"

// StopwatchState is the lifecycle state of a stopwatch
type StopwatchState string

// Stopwatch states
const (
	StateIdle    StopwatchState = "idle"    // Not timing; initial state and the state after stop/reset
	StateRunning StopwatchState = "running" // Timing; laps may be recorded
)

// Operation is a caller-invoked stopwatch operation
type Operation string

const (
	OpStart Operation = "start"
	OpLap   Operation = "lap"
	OpStop  Operation = "stop"
	OpReset Operation = "reset"
)

// Operations lists every operation in a stable order
var Operations = []Operation{OpStart, OpLap, OpStop, OpReset}

// validTransitions maps from-state and operation to the resulting state.
// Reset is accepted from every state and handled by Transition directly.
var validTransitions = map[StopwatchState]map[Operation]StopwatchState{
	StateIdle: {
		OpStart: StateRunning, // Idle → Running
	},
	StateRunning: {
		OpLap:  StateRunning, // Running → Running (records a lap)
		OpStop: StateIdle,    // Running → Idle (records the final lap)
	},
}

// ValidateTransition checks whether op is allowed from state from
func ValidateTransition(from StopwatchState, op Operation) error {
	_, err := Transition(from, op)
	return err
}

// Transition returns the state reached by applying op in state from
func Transition(from StopwatchState, op Operation) (StopwatchState, error) {
	allowed, exists := validTransitions[from]
	if !exists {
		return from, fmt.Errorf("unknown source state: %s", from)
	}

	if op == OpReset {
		return StateIdle, nil
	}

	to, ok := allowed[op]
	if !ok {
		return from, fmt.Errorf("invalid operation %s in state %s", op, from)
	}
	return to, nil
}

// IsRunningState returns true if the stopwatch is timing in this state
func IsRunningState(state StopwatchState) bool {
	return state == StateRunning
}

// StateOf maps the running flag to its state
func StateOf(running bool) StopwatchState {
	if running {
		return StateRunning
	}
	return StateIdle
}
