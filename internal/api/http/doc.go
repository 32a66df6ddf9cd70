/*
Package http serves the control and diagnostics API for live host sessions.

Every route under /sessions/:id runs its engine call on that session's loop,
so HTTP clients and the websocket host never race on the engine.

	GET    /health
	GET    /metrics/summary
	GET    /sessions
	GET    /sessions/:id/state
	GET    /sessions/:id/diagnostics
	POST   /sessions/:id/navigate/:direction
	POST   /sessions/:id/activate
	POST   /sessions/:id/back
	POST   /sessions/:id/groups/:name
	POST   /sessions/:id/cycle/:step
	POST   /sessions/:id/invalidate
	DELETE /sessions/:id
*/
package http
