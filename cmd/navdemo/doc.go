// Package main runs an interactive terminal demo of the navigation engine.
//
// The screen shows a navigation bar, a content grid and a sidebar, one
// focus group each. Arrow keys move focus, Tab and Shift+Tab cycle groups,
// Enter or Space activates, Escape goes back and the mouse switches to
// pointer mode. Press q or Ctrl+C to quit.
//
//	./navdemo -log /tmp/navdemo.log -dev
package main
