package config

import "pickchart/pkg/contracts"

// Application constants
const (
	AppName    = "pickchart"
	AppVersion = contracts.Version

	// DefaultSourceFile is the picks table read when no source is configured.
	DefaultSourceFile = "barrons-picks.csv"
)
