package store

import "github.com/psantana5/lapwatch/pkg/stopwatch"

// Store creates and tracks uniquely identified stopwatches.
// Implementations must make the uniqueness check and the insertion atomic.
type Store interface {
	// Create builds a new stopwatch for id. It fails with an error wrapping
	// stopwatch.ErrInvalidArgument if id is empty or already taken.
	Create(id string) (*stopwatch.Stopwatch, error)
	// Get returns the stopwatch registered under id.
	Get(id string) (*stopwatch.Stopwatch, error)
	// List returns every created stopwatch in creation order.
	List() []*stopwatch.Stopwatch
	// Len returns the number of created stopwatches.
	Len() int
}

// CreateObserver is notified about registry creations and rejections
type CreateObserver interface {
	OnCreate(id string)
	OnCreateRejected(id string, reason string)
}
