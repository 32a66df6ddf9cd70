package schedule

import "time"

// Timer is a pending one-shot or periodic callback
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped a timer
	// that had not yet fired (one-shot) or was still running (periodic).
	Stop() bool
}

// Scheduler supplies time and callbacks to the engine
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// StopAll stops every non-nil timer
func StopAll(timers ...Timer) {
	for _, t := range timers {
		if t != nil {
			t.Stop()
		}
	}
}
