/*
Package terminal is a tcell host for the navigation engine: a grid of tiles
in three groups (navigation bar, content grid, sidebar) driven by the
keyboard and mouse.

Arrows move focus, Tab and Shift+Tab cycle groups, Enter or Space activate,
Escape emits a back intent, q or Ctrl+C quits. Moving the mouse switches the
engine to pointer mode and clicking a tile activates it directly.

The screen is owned by the caller:

	screen, _ := tcell.NewScreen()
	screen.Init()
	defer screen.Fini()

	host, _ := terminal.New(screen, terminal.Options{Config: cfg, Logger: logger})
	host.Run(ctx)
*/
package terminal
