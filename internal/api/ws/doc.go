/*
Package ws bridges remote (browser) hosts to navigation engines over
websockets.

Each connection gets a Session with its own Engine running on its own
runtime.Loop. The host registers regions with their bounds and forwards raw
key, pointer, frame, gamepad and viewport events. The server pushes state
changes, focus and activation visuals, feedback cues and intents back.

Inbound messages:

	{"type":"register","id":"home","group":"navigation","priority":1,
	 "bounds":{"x":0,"y":0,"width":120,"height":40}}
	{"type":"unregister","id":"home"}
	{"type":"touch","ids":["home","settings"]}
	{"type":"key","key":{"key":"ArrowDown","target":"button"}}
	{"type":"pointer","pointer":{"x":10,"y":20}}
	{"type":"frame","ts":16.7}
	{"type":"gamepad","pads":[{"index":0,"connected":true,"buttons":[...]}]}
	{"type":"viewport","viewport":{"width":1280,"height":720}}
	{"type":"navigate","direction":"left"}
	{"type":"activate"} {"type":"group","group":"content"} {"type":"cycle","step":1}
	{"type":"back"} {"type":"invalidate"} {"type":"ping"}

Outbound messages: welcome, state, focus, activated, activate, feedback,
intent, evicted, error and pong.

Regions the host keeps mounted should be touched more often than the
staleness window. Regions the sweep removes are reported in an evicted
message ({"type":"evicted","ids":[...]}) and must be registered again.

Device capabilities may be passed as query parameters on the upgrade
request (?cores=4&memory_gb=8) to seed performance mode.
*/
package ws
