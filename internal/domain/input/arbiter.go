package input

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"golang.org/x/time/rate"
)

// Arbiter owns the input mode. The latest signal always wins.
type Arbiter struct {
	mode    types.InputMode
	limiter *rate.Limiter
	seen    map[int]bool

	pending     bool
	reservation *rate.Reservation
}

// NewArbiter creates an arbiter in initial mode whose visual clear passes
// are limited to clearHz
func NewArbiter(initial types.InputMode, clearHz float64) *Arbiter {
	if clearHz <= 0 {
		clearHz = 60
	}
	return &Arbiter{
		mode:    initial,
		limiter: rate.NewLimiter(rate.Limit(clearHz), 1),
		seen:    make(map[int]bool),
	}
}

// Mode returns the current input mode
func (a *Arbiter) Mode() types.InputMode {
	return a.mode
}

// Set switches to mode and reports whether it changed
func (a *Arbiter) Set(mode types.InputMode) bool {
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

// ObservePads records connected pads and reports whether one appeared that
// was not connected at the previous poll
func (a *Arbiter) ObservePads(pads []types.GamepadState) bool {
	connected := make(map[int]bool, len(pads))
	fresh := false
	for _, p := range pads {
		if !p.Connected {
			continue
		}
		connected[p.Index] = true
		if !a.seen[p.Index] {
			fresh = true
		}
	}
	a.seen = connected
	return fresh
}

// ClearPass schedules a visual clear pass at now. It returns the delay
// before the pass may run (zero means run now), or ok=false when a deferred
// pass is already pending and will cover this request.
func (a *Arbiter) ClearPass(now time.Time) (delay time.Duration, ok bool) {
	if a.pending {
		return 0, false
	}
	r := a.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, false
	}
	delay = r.DelayFrom(now)
	if delay > 0 {
		a.pending = true
		a.reservation = r
	}
	return delay, true
}

// ClearDone marks a deferred pass as run
func (a *Arbiter) ClearDone() {
	a.pending = false
	a.reservation = nil
}

// CancelClear abandons a deferred pass and returns its token
func (a *Arbiter) CancelClear(now time.Time) {
	if a.reservation != nil {
		a.reservation.CancelAt(now)
	}
	a.ClearDone()
}

// ClearPending reports whether a deferred pass is waiting
func (a *Arbiter) ClearPending() bool {
	return a.pending
}
