package geometry

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
)

// Sweeper runs a staleness pass on a fixed interval
type Sweeper struct {
	sched    schedule.Scheduler
	interval time.Duration
	sweep    func(now time.Time)
	timer    schedule.Timer
}

// NewSweeper creates a sweeper; an interval of zero disables it
func NewSweeper(sched schedule.Scheduler, interval time.Duration, sweep func(now time.Time)) *Sweeper {
	return &Sweeper{sched: sched, interval: interval, sweep: sweep}
}

// Start schedules the sweep. Calling Start twice is a no-op.
func (s *Sweeper) Start() {
	if s.interval <= 0 || s.timer != nil {
		return
	}
	s.timer = s.sched.Every(s.interval, func() {
		s.sweep(s.sched.Now())
	})
}

// Stop cancels the sweep
func (s *Sweeper) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Running reports whether the sweep is scheduled
func (s *Sweeper) Running() bool {
	return s.timer != nil
}
