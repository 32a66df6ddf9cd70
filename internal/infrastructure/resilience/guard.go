package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrGuardOpen       = errors.New("guard is open")
	ErrTooManyRequests = errors.New("too many requests")
	ErrPanic           = errors.New("callback panicked")
)

// State represents the guard state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures guard behavior
type Settings struct {
	// MaxRequests is the number of trial calls allowed while half-open
	MaxRequests uint32
	// Interval is the cyclic period of the closed state to clear internal counts
	Interval time.Duration
	// Timeout is how long the guard stays open before trying again
	Timeout time.Duration
	// ReadyToTrip is called with counts when a call fails in closed state
	ReadyToTrip func(counts Counts) bool
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// Now supplies the clock; defaults to time.Now
	Now func() time.Time
}

// Counts holds call statistics for the current generation
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Guard is a circuit breaker around host callbacks. Panics inside a guarded
// call are recovered and counted as failures.
type Guard struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	counts   Counts
	expiry   time.Time
	panics   uint64
	rejected uint64
}

// New creates a guard with the given settings
func New(name string, settings Settings) *Guard {
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Interval == 0 {
		settings.Interval = 60 * time.Second
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Guard{
		name:     name,
		settings: settings,
		state:    StateClosed,
		expiry:   settings.Now().Add(settings.Interval),
	}
}

// Name returns the name of the guard
func (g *Guard) Name() string {
	return g.name
}

// State returns the current state
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, _ := g.currentState(g.settings.Now())
	return state
}

// Counts returns a copy of the internal counts
func (g *Guard) Counts() Counts {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts
}

// Panics returns how many guarded calls panicked
func (g *Guard) Panics() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.panics
}

// Rejected returns how many calls were skipped while open
func (g *Guard) Rejected() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rejected
}

// Call runs fn if the guard accepts it. A panic in fn is returned as an
// error wrapping ErrPanic and never propagates to the caller.
func (g *Guard) Call(fn func() error) (err error) {
	if g == nil {
		return safeCall(fn)
	}

	generation, err := g.beforeCall()
	if err != nil {
		return err
	}

	err = safeCall(fn)
	if errors.Is(err, ErrPanic) {
		g.mu.Lock()
		g.panics++
		g.mu.Unlock()
	}
	g.afterCall(generation, err == nil)
	return err
}

// Run is Call for callbacks with no error result
func (g *Guard) Run(fn func()) error {
	return g.Call(func() error {
		fn()
		return nil
	})
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

func (g *Guard) beforeCall() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, generation := g.currentState(g.settings.Now())

	if state == StateOpen {
		g.rejected++
		return generation, ErrGuardOpen
	}

	if state == StateHalfOpen && g.counts.Requests >= g.settings.MaxRequests {
		g.rejected++
		return generation, ErrTooManyRequests
	}

	g.counts.Requests++
	return generation, nil
}

func (g *Guard) afterCall(before uint64, success bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.settings.Now()
	state, generation := g.currentState(now)
	if generation != before {
		return
	}

	if success {
		g.onSuccess(state, now)
	} else {
		g.onFailure(state, now)
	}
}

func (g *Guard) onSuccess(state State, now time.Time) {
	switch state {
	case StateClosed:
		g.counts.TotalSuccesses++
		g.counts.ConsecutiveSuccesses++
		g.counts.ConsecutiveFailures = 0
	case StateHalfOpen:
		g.counts.TotalSuccesses++
		g.counts.ConsecutiveSuccesses++
		g.counts.ConsecutiveFailures = 0
		if g.counts.ConsecutiveSuccesses >= g.settings.MaxRequests {
			g.setState(StateClosed, now)
		}
	}
}

func (g *Guard) onFailure(state State, now time.Time) {
	switch state {
	case StateClosed:
		g.counts.TotalFailures++
		g.counts.ConsecutiveFailures++
		g.counts.ConsecutiveSuccesses = 0
		if g.settings.ReadyToTrip(g.counts) {
			g.setState(StateOpen, now)
		}
	case StateHalfOpen:
		g.setState(StateOpen, now)
	}
}

// currentState advances time-based transitions and returns the state and generation
func (g *Guard) currentState(now time.Time) (State, uint64) {
	switch g.state {
	case StateClosed:
		if !g.expiry.IsZero() && g.expiry.Before(now) {
			g.counts = Counts{}
			g.expiry = now.Add(g.settings.Interval)
		}
	case StateOpen:
		if !now.Before(g.expiry) {
			g.setState(StateHalfOpen, now)
		}
	}

	return g.state, uint64(g.expiry.UnixNano())
}

func (g *Guard) setState(state State, now time.Time) {
	if g.state == state {
		return
	}

	prev := g.state
	g.state = state
	g.counts = Counts{}

	switch state {
	case StateClosed:
		g.expiry = now.Add(g.settings.Interval)
	case StateOpen:
		g.expiry = now.Add(g.settings.Timeout)
	case StateHalfOpen:
		g.expiry = time.Time{}
	}

	if g.settings.OnStateChange != nil {
		g.settings.OnStateChange(g.name, prev, state)
	}
}
