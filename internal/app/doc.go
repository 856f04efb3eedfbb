// Package app wires the dataset web service: configuration, logging,
// OpenTelemetry, the dataset and health services, the chi router and the
// HTTP server lifecycle.
//
// # Initialization Flow
//
//	1. Build the logger from the logging configuration (or take WithLogger)
//	2. Resolve and create the working directories
//	3. Initialize tracing and the Prometheus-backed meter
//	4. Build the corpus loader and the services on top of it
//	5. Assemble middleware and routes
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run loads the dataset, serves until SIGINT or SIGTERM and then shuts the
// server and telemetry down within Server.ShutdownTimeout. Errors are
// returned to the caller; the package never calls os.Exit.
//
// NewCorpusLoader is shared with the batch processor so both executables
// interpret the pipeline configuration the same way.
package app
