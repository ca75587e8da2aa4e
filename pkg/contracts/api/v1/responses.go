package api

// Response headers set by the picks data endpoint
const (
	HeaderPicksSource   = "X-Picks-Source"
	HeaderPicksWarnings = "X-Picks-Warnings"
	HeaderPicksSkipped  = "X-Picks-Skipped"
)
