// Package runtime runs an engine on a dedicated goroutine.
//
// Loop serializes every engine call and timer callback onto one goroutine,
// which is the execution model the engine requires. It also implements
// schedule.Scheduler so engine timers fire on the same goroutine.
package runtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
	"go.uber.org/zap"
)

// ErrStopped is returned when posting to a stopped loop
var ErrStopped = errors.New("loop stopped")

// Loop is a single-goroutine executor
type Loop struct {
	queue   chan func()
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
	logger  *zap.Logger
}

// NewLoop creates a loop with a bounded queue
func NewLoop(queueSize int, logger *zap.Logger) *Loop {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		queue:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes posted funcs until ctx is cancelled or Stop is called.
// It must be called exactly once.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	if l.stopped.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// Post queues fn without waiting for it
func (l *Loop) Post(fn func()) error {
	if l.stopped.Load() {
		return ErrStopped
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Stop ends the loop; queued funcs that have not started are discarded
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.stopped.Store(true)
		close(l.done)
	})
}

// Done is closed once the loop stops
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Now returns wall-clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the loop after d
func (l *Loop) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.cancelled.Load() {
				return
			}
			t.cancelled.Store(true)
			fn()
		})
	})
	return t
}

// Every runs fn on the loop every d until stopped
func (l *Loop) Every(d time.Duration, fn func()) schedule.Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	t := &loopTicker{ticker: time.NewTicker(d), quit: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				_ = l.Post(func() {
					if t.stopped.Load() {
						return
					}
					fn()
				})
			case <-t.quit:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}

type loopTimer struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return !t.cancelled.Swap(true)
}

type loopTicker struct {
	ticker  *time.Ticker
	quit    chan struct{}
	stopped atomic.Bool
}

func (t *loopTicker) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.ticker.Stop()
	close(t.quit)
	return true
}

var _ schedule.Scheduler = (*Loop)(nil)
