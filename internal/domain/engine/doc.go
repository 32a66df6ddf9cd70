/*
Package engine moves a single focus cursor across registered on-screen
regions using directional input.

An Engine owns all navigation state: the registry of focusable regions, the
geometry cache, the current focus and group, the input mode and the
performance governor. It is single-threaded. Every method, and every timer
callback it schedules, must run on the goroutine that owns it; hosts get that
guarantee from a schedule.Scheduler such as runtime.Loop.

Control flow:

	device events -> arbiter (classify, throttle)
	              -> navigator / group switcher / activation (mutate focus)
	              -> geometry cache (bounds)
	              -> host visuals through each region handle

Navigation commands never return errors. Stale regions, missing device APIs
and failing host callbacks are logged, counted and skipped.

# Usage

	loop := runtime.NewLoop(256, logger)
	go loop.Run(ctx)

	eng, err := engine.New(engine.Options{
		Config:    cfg,
		Scheduler: loop,
		Logger:    logger.Named("engine"),
		Feedback:  player,
		Router:    router,
	})
	if err != nil {
		return err
	}
	defer loop.Do(ctx, eng.Close)

	loop.Post(func() {
		eng.Register(registry.Focusable{ID: "home", Group: "navigation", Region: tile})
		eng.Navigate(types.DirectionDown)
	})
*/
package engine
