package store

import (
	"fmt"
	"sync"

	"github.com/psantana5/lapwatch/pkg/clock"
	"github.com/psantana5/lapwatch/pkg/logging"
	"github.com/psantana5/lapwatch/pkg/stopwatch"
)

var (
	ErrEmptyID           = fmt.Errorf("%w: stopwatch id must not be empty", stopwatch.ErrInvalidArgument)
	ErrDuplicateID       = fmt.Errorf("%w: stopwatch id already taken", stopwatch.ErrInvalidArgument)
	ErrStopwatchNotFound = fmt.Errorf("%w: stopwatch not found", stopwatch.ErrInvalidArgument)
)

// Rejection reasons reported to a CreateObserver
const (
	ReasonEmpty     = "empty"
	ReasonDuplicate = "duplicate"
)

// MemoryStore is an in-memory Store. Its lock is independent of every
// stopwatch lock and is never held while calling into a stopwatch.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*stopwatch.Stopwatch
	order   []*stopwatch.Stopwatch

	clock    clock.Clock
	logger   *logging.Logger
	observer stopwatch.Observer
	creates  CreateObserver
}

// Option configures a MemoryStore
type Option func(*MemoryStore)

// WithClock sets the clock handed to every created stopwatch
func WithClock(c clock.Clock) Option {
	return func(s *MemoryStore) {
		s.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver attaches o to every created stopwatch. If o also implements
// CreateObserver it is told about creations and rejections.
func WithObserver(o stopwatch.Observer) Option {
	return func(s *MemoryStore) {
		s.observer = o
		if co, ok := o.(CreateObserver); ok {
			s.creates = co
		}
	}
}

// NewMemoryStore creates a new, empty in-memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*stopwatch.Stopwatch),
		order:   make([]*stopwatch.Stopwatch, 0),
		clock:   clock.Real{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "store")
	return s
}

var _ Store = (*MemoryStore)(nil)

// Create adds a new stopwatch to the store
func (s *MemoryStore) Create(id string) (*stopwatch.Stopwatch, error) {
	if id == "" {
		s.reject(id, ReasonEmpty)
		return nil, ErrEmptyID
	}

	s.mu.Lock()
	if _, exists := s.entries[id]; exists {
		s.mu.Unlock()
		s.reject(id, ReasonDuplicate)
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	sw, err := stopwatch.New(id, stopwatch.WithClock(s.clock), stopwatch.WithObserver(s.observer))
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.entries[id] = sw
	s.order = append(s.order, sw)
	total := len(s.order)
	s.mu.Unlock()

	s.logger.Debug("Stopwatch created", map[string]interface{}{"id": id, "total": total})
	if s.creates != nil {
		s.creates.OnCreate(id)
	}
	return sw, nil
}

// Get retrieves a stopwatch by ID
func (s *MemoryStore) Get(id string) (*stopwatch.Stopwatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sw, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStopwatchNotFound, id)
	}
	return sw, nil
}

// List returns all stopwatches in creation order
func (s *MemoryStore) List() []*stopwatch.Stopwatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*stopwatch.Stopwatch, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stopwatches
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *MemoryStore) reject(id, reason string) {
	s.logger.Warn("Stopwatch creation rejected", map[string]interface{}{"id": id, "reason": reason})
	if s.creates != nil {
		s.creates.OnCreateRejected(id, reason)
	}
}
