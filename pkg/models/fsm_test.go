package models

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    StopwatchState
		op      Operation
		wantErr bool
	}{
		// Valid transitions
		{"Idle start", StateIdle, OpStart, false},
		{"Idle reset", StateIdle, OpReset, false},
		{"Running lap", StateRunning, OpLap, false},
		{"Running stop", StateRunning, OpStop, false},
		{"Running reset", StateRunning, OpReset, false},

		// Invalid transitions
		{"Idle lap", StateIdle, OpLap, true},
		{"Idle stop", StateIdle, OpStop, true},
		{"Running start", StateRunning, OpStart, true},

		// Unknown states
		{"Unknown state", StopwatchState("paused"), OpStart, true},
		{"Unknown state reset", StopwatchState("paused"), OpReset, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.op)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransition(%v, %v) error = %v, wantErr %v",
					tt.from, tt.op, err, tt.wantErr)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     StopwatchState
		op       Operation
		expected StopwatchState
	}{
		{"start enters running", StateIdle, OpStart, StateRunning},
		{"lap stays running", StateRunning, OpLap, StateRunning},
		{"stop returns to idle", StateRunning, OpStop, StateIdle},
		{"reset from running", StateRunning, OpReset, StateIdle},
		{"reset from idle", StateIdle, OpReset, StateIdle},
		{"rejected op keeps state", StateIdle, OpLap, StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := Transition(tt.from, tt.op)
			if result != tt.expected {
				t.Errorf("Transition(%v, %v) = %v, want %v", tt.from, tt.op, result, tt.expected)
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	if StateOf(true) != StateRunning {
		t.Errorf("StateOf(true) = %v, want %v", StateOf(true), StateRunning)
	}
	if StateOf(false) != StateIdle {
		t.Errorf("StateOf(false) = %v, want %v", StateOf(false), StateIdle)
	}
	if !IsRunningState(StateRunning) || IsRunningState(StateIdle) {
		t.Error("IsRunningState disagrees with state constants")
	}
}
