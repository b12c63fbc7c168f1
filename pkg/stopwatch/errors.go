package stopwatch

import (
	"errors"
	"fmt"

	"github.com/psantana5/lapwatch/pkg/models"
)

var (
	// ErrInvalidArgument is returned when an identifier is empty or already taken.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid state")
)

// TransitionError describes a rejected state transition
type TransitionError struct {
	ID   string
	Op   models.Operation
	From models.StopwatchState
	Err  error
}

// Error implements error interface
func (e *TransitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stopwatch %q: %s rejected while %s: %v", e.ID, e.Op, e.From, e.Err)
	}
	return fmt.Sprintf("stopwatch %q: %s rejected while %s", e.ID, e.Op, e.From)
}

// Unwrap exposes both ErrInvalidState and the underlying FSM error
func (e *TransitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidState}
	}
	return []error{ErrInvalidState, e.Err}
}
