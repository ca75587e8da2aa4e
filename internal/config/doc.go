// Package config loads and validates pickchart configuration.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Default() values
//	2. A YAML file: $PICKS_CONFIG, ./config.yaml, ./configs/config.yaml,
//	   or config.yaml next to the executable
//	3. Environment variables
//
// # Environment Variables
//
// Variables follow the pattern PICKS_<SECTION>_<FIELD>:
//
//	PICKS_SERVER_PORT=8080
//	PICKS_PICKS_SOURCE=/data/barrons-picks.csv
//	PICKS_PICKS_LOAD_TIMEOUT=5s
//	PICKS_PICKS_GAP_POLICY=strict
//	PICKS_LOGGING_LEVEL=debug
//	PICKS_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Every section carries validator tags. Validate reports all failing fields
// in one error.
package config
