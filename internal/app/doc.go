// Package app wires the pickchart web service together and runs it.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config.yaml, PICKS_* environment)
//	2. Initialize the JSON logger and OpenTelemetry providers
//	3. Create the picks loader, chart service and health service
//	4. Build the chi router and its middleware chain
//	5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Tests build an Application with New, passing a config, a test logger
// and a private Prometheus registry.
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM, or when the server stops on its own.
// Stop drains in-flight requests within Server.ShutdownTimeout and then
// flushes the OpenTelemetry providers. Stop may be called more than once.
package app
