/*
Package schedule defines the timer capability the navigation engine runs on.

The engine is single-threaded: every callback it schedules must run on the
same goroutine that drives its public API. Hosts provide that guarantee
through a Scheduler implementation:

  - runtime.Loop posts timer callbacks into its event queue (servers, terminal host)
  - Manual fires callbacks synchronously from Advance (tests)

# Usage

	clock := schedule.NewManual(time.Unix(0, 0))
	t := clock.Every(time.Minute, sweep)
	clock.Advance(2 * time.Minute) // sweep runs twice
	t.Stop()
*/
package schedule
