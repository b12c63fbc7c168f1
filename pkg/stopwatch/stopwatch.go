// Package stopwatch implements a lap-recording stopwatch that is safe for
// concurrent use.
//
// Each Stopwatch guards its state with its own mutex. Every operation runs in
// constant time under that lock and never performs I/O.
package stopwatch

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/psantana5/lapwatch/pkg/clock"
	"github.com/psantana5/lapwatch/pkg/models"
)

// Observer is notified about successful stopwatch operations.
// Notifications are delivered after the stopwatch lock has been released.
type Observer interface {
	OnTransition(id string, op models.Operation, from, to models.StopwatchState)
	OnLap(id string, d time.Duration)
}

// Stopwatch records the elapsed time since start and a sequence of laps.
type Stopwatch struct {
	id       string
	clock    clock.Clock
	observer Observer

	mu        sync.Mutex
	running   bool
	startTime time.Time
	lastMark  time.Time
	endTime   time.Time
	laps      []time.Duration
}

// Option configures a Stopwatch
type Option func(*Stopwatch)

// WithClock sets the time source. Defaults to clock.Real.
func WithClock(c clock.Clock) Option {
	return func(s *Stopwatch) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithObserver attaches an observer
func WithObserver(o Observer) Option {
	return func(s *Stopwatch) {
		s.observer = o
	}
}

// New creates an idle stopwatch. Uniqueness of id is the caller's concern;
// use a store.Store to get registry-enforced identifiers.
func New(id string, opts ...Option) (*Stopwatch, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: stopwatch id must not be empty", ErrInvalidArgument)
	}

	s := &Stopwatch{
		id:    id,
		clock: clock.Real{},
		laps:  make([]time.Duration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the immutable identifier
func (s *Stopwatch) ID() string {
	return s.id
}

// Start begins timing. It fails with ErrInvalidState if already running.
func (s *Stopwatch) Start() error {
	s.mu.Lock()
	from, to, err := s.transitionLocked(models.OpStart)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	now := s.clock.Now()
	s.startTime = now
	s.lastMark = now
	s.running = true
	s.mu.Unlock()

	s.notifyTransition(models.OpStart, from, to)
	return nil
}

// Lap records the time since the previous mark. It fails with
// ErrInvalidState if not running.
func (s *Stopwatch) Lap() error {
	s.mu.Lock()
	from, to, err := s.transitionLocked(models.OpLap)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	d := s.markLocked(s.clock.Now())
	s.mu.Unlock()

	s.notifyLap(d)
	s.notifyTransition(models.OpLap, from, to)
	return nil
}

// Stop ends timing and records one final lap. It fails with
// ErrInvalidState if not running.
func (s *Stopwatch) Stop() error {
	s.mu.Lock()
	from, to, err := s.transitionLocked(models.OpStop)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	now := s.clock.Now()
	s.endTime = now
	d := s.markLocked(now)
	s.running = false
	s.mu.Unlock()

	s.notifyLap(d)
	s.notifyTransition(models.OpStop, from, to)
	return nil
}

// Reset clears all timestamps and laps and leaves the stopwatch idle,
// stopping it first if it is running.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	from := models.StateOf(s.running)
	s.running = false
	s.startTime = time.Time{}
	s.lastMark = time.Time{}
	s.endTime = time.Time{}
	s.laps = make([]time.Duration, 0)
	s.mu.Unlock()

	s.notifyTransition(models.OpReset, from, models.StateIdle)
}

// LapTimes returns a copy of the recorded laps in milliseconds. It is never
// nil.
func (s *Stopwatch) LapTimes() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, len(s.laps))
	for i, d := range s.laps {
		out[i] = d.Milliseconds()
	}
	return out
}

// Laps returns a copy of the recorded laps
func (s *Stopwatch) Laps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Duration, len(s.laps))
	copy(out, s.laps)
	return out
}

// Running reports whether the stopwatch is timing
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// State returns the current FSM state
func (s *Stopwatch) State() models.StopwatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.StateOf(s.running)
}

// Elapsed returns end minus start once stopped, now minus start while
// running, and zero if never started since the last reset.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

// Snapshot is a point-in-time copy of a stopwatch
type Snapshot struct {
	ID        string
	State     models.StopwatchState
	StartTime time.Time
	LastMark  time.Time
	EndTime   time.Time
	Elapsed   time.Duration
	Laps      []time.Duration
}

// Snapshot copies every field under a single lock acquisition
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	laps := make([]time.Duration, len(s.laps))
	copy(laps, s.laps)
	return Snapshot{
		ID:        s.id,
		State:     models.StateOf(s.running),
		StartTime: s.startTime,
		LastMark:  s.lastMark,
		EndTime:   s.endTime,
		Elapsed:   s.elapsedLocked(),
		Laps:      laps,
	}
}

// Equal reports whether s and other are the same stopwatch or share an id.
func (s *Stopwatch) Equal(other *Stopwatch) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.id == other.id
}

// Hash is derived from the id alone, so Equal stopwatches hash equally.
func (s *Stopwatch) Hash() uint64 {
	return xxhash.Sum64String(s.id)
}

// Fingerprint hashes the id together with the mutable state. Two equal
// stopwatches may have different fingerprints.
func (s *Stopwatch) Fingerprint() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := xxhash.New()
	_, _ = h.WriteString(s.id)

	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	writeInt(unixNanoOrZero(s.startTime))
	writeInt(unixNanoOrZero(s.endTime))
	for _, d := range s.laps {
		writeInt(int64(d))
	}
	if s.running {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// String renders the elapsed time and the laps
func (s *Stopwatch) String() string {
	snap := s.Snapshot()
	return formatSnapshot(snap)
}

func (s *Stopwatch) transitionLocked(op models.Operation) (models.StopwatchState, models.StopwatchState, error) {
	from := models.StateOf(s.running)
	to, err := models.Transition(from, op)
	if err != nil {
		return from, from, &TransitionError{ID: s.id, Op: op, From: from, Err: err}
	}
	return from, to, nil
}

// markLocked appends the lap ending at now and moves the mark.
// A clock that stepped backwards yields a zero lap.
func (s *Stopwatch) markLocked(now time.Time) time.Duration {
	d := now.Sub(s.lastMark)
	if d < 0 {
		d = 0
	}
	s.laps = append(s.laps, d)
	s.lastMark = now
	return d
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	var d time.Duration
	if s.running {
		d = s.clock.Now().Sub(s.startTime)
	} else {
		d = s.endTime.Sub(s.startTime)
	}
	if d < 0 {
		return 0
	}
	return d
}

func (s *Stopwatch) notifyTransition(op models.Operation, from, to models.StopwatchState) {
	if s.observer != nil {
		s.observer.OnTransition(s.id, op, from, to)
	}
}

func (s *Stopwatch) notifyLap(d time.Duration) {
	if s.observer != nil {
		s.observer.OnLap(s.id, d)
	}
}

func unixNanoOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
