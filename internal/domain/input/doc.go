/*
Package input turns raw device events into engine commands and decides
which device class is driving focus.

  - ClassifyKey maps keyboard events (arrows, Enter/Space, Tab, Escape,
    configured shortcuts) to commands, ignoring text-entry targets.
  - GamepadPoller maps polled gamepad snapshots in the standard layout to
    commands with edge detection and held-direction repeat.
  - Arbiter tracks the input mode and throttles visual clear passes.
*/
package input
