// Package activation triggers focused regions and drives the transient
// "activated" pulse visual.
package activation

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
)

// Target is the part of a region activation touches
type Target interface {
	Activate()
	SetActivated(active bool)
}

type pulse struct {
	target Target
	timer  schedule.Timer
}

// Controller owns one pulse timer per activated region
type Controller struct {
	sched   schedule.Scheduler
	mounted func(id string) bool
	pulses  map[string]*pulse
	count   uint64
}

// NewController creates a controller on sched. mounted reports whether a
// region is still registered after its action ran; nil treats every region
// as mounted.
func NewController(sched schedule.Scheduler, mounted func(id string) bool) *Controller {
	return &Controller{
		sched:   sched,
		mounted: mounted,
		pulses:  make(map[string]*pulse),
	}
}

// Activate runs target's action once and shows the pulse for d.
// Re-activating while a pulse is pending restarts its timer. An action that
// unmounts its own region gets no pulse; Activate then returns false.
func (c *Controller) Activate(id string, target Target, d time.Duration) bool {
	c.count++
	target.Activate()
	if c.mounted != nil && !c.mounted(id) {
		return false
	}
	c.Pulse(id, target, d)
	return true
}

// Pulse shows the activated visual on target for d without triggering it
func (c *Controller) Pulse(id string, target Target, d time.Duration) {
	if p, ok := c.pulses[id]; ok {
		p.timer.Stop()
	}

	target.SetActivated(true)
	p := &pulse{target: target}
	p.timer = c.sched.AfterFunc(d, func() {
		if c.pulses[id] != p {
			return
		}
		delete(c.pulses, id)
		p.target.SetActivated(false)
	})
	c.pulses[id] = p
}

// Cancel stops a pending pulse without reverting the visual.
// Used when the region itself is going away.
func (c *Controller) Cancel(id string) bool {
	p, ok := c.pulses[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(c.pulses, id)
	return true
}

// Pending returns the number of pulses waiting to revert
func (c *Controller) Pending() int {
	return len(c.pulses)
}

// Activations returns how many activations ran
func (c *Controller) Activations() uint64 {
	return c.count
}

// Close stops every pulse timer
func (c *Controller) Close() {
	for id, p := range c.pulses {
		p.timer.Stop()
		delete(c.pulses, id)
	}
}
