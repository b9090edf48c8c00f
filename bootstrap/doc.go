// Package bootstrap orchestrates the application lifecycle.
//
// An App validates its typed configuration, initializes the logger, starts
// registered components in order, runs lifecycle hooks, blocks until a
// shutdown signal or context cancellation, then stops components in reverse
// order within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(hubComponent)
//	app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap
