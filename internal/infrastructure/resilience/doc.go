/*
Package resilience guards calls into host-supplied callbacks.

A Guard is a three-state circuit breaker (closed, open, half-open). Feedback
players, routers, regions and gamepad sources are all host code; a callback
that panics or keeps failing is recovered, counted and eventually skipped
for a cooldown so it cannot stall the engine goroutine.

# Usage

	guard := resilience.New("feedback", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})

	_ = guard.Run(player.OnFocusFeedback)

# Pattern

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
