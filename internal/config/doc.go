// Package config loads and validates the application configuration.
//
// # Configuration Sources
//
// Values are applied in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $BBB_CONFIG_FILE, config.yaml or configs/config.yaml
//	3. A .env file in the working directory (never overrides the real environment)
//	4. Environment variables with the BBB_ prefix
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	BBB_PIPELINE_MATCHES_DIR=data/matches
//	BBB_PIPELINE_WORKERS=8
//	BBB_PIPELINE_DATE_POLICY=abort
//	BBB_EXPORT_FORMATS=csv,xlsx,sqlite
//	BBB_SERVER_PORT=8080
//	BBB_LOGGING_LEVEL=debug
//	BBB_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Paths
//
// Relative directories are resolved by Paths against PathsConfig.BaseDir,
// or the working directory when it is empty.
package config
