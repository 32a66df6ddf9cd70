// Package types provides shared data structures for the navigation engine.
//
// This package defines the value types passed between the engine, its
// domain components and the hosts that drive it, so every layer agrees on
// geometry, directions and state snapshots.
//
// Geometry:
//   - Point, Size, Rect: host coordinate space (pixels, cells, dp)
//
// Input:
//   - Direction: compass direction of a navigation request
//   - InputMode: pointer, directional or gamepad
//   - KeyEvent, PointerEvent, GamepadState: raw device events
//
// State:
//   - State: read-only navigation state snapshot
//   - Metrics: diagnostics snapshot
//   - Profile: animation/feedback/polling settings for the current mode
//   - Intent: view change requested from the router
//
// Example Usage:
//
//	dir, ok := types.ParseDirection("left")
//	if ok {
//	    engine.Navigate(dir)
//	}
package types
