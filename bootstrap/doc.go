// Package bootstrap runs a binary's lifecycle: it validates the typed
// config, initializes the global logger, starts registered components,
// runs a finite task with SIGINT/SIGTERM cancellation and shuts the
// components down within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(store)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return follow(ctx)
//	})
package bootstrap
