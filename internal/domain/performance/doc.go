/*
Package performance decides when the engine should trade fidelity for speed.

The governor turns two signals into a single performance mode flag:

  - frame rate, measured over fixed sample windows from host Frame calls
    (fps = frames / elapsedMs * 1000); below the threshold sets the flag and
    a later healthy window clears it
  - a one-time capability probe; a low core count or low memory sets the
    flag permanently

Performance mode shortens animation durations, suppresses focus and select
feedback, and slows gamepad polling. See Profile.
*/
package performance
