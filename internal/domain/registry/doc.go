/*
Package registry tracks the focusable regions an engine can move between.

Registration is an upsert keyed by ID: re-registering keeps the original
registration order (used as the final tie-break) and refreshes the region
handle, group and priority. Each entry records when it was last touched and
last focused so the staleness sweep can drop regions the host forgot to
unregister.
*/
package registry
