// Package services implements the business logic between HTTP handlers and
// the picks and chart packages.
//
// ChartService owns the read-then-build flow: it loads the configured picks
// source under a timeout, coalesces concurrent loads with singleflight,
// records a span and load metrics, and turns the records into a chart.Chart.
// It holds no visibility state; Interact takes the client's current state and
// an event and returns the chart in the next state.
//
// HealthService reports liveness, readiness (a successful picks load) and
// build information.
//
// Errors leave this package as *errors.AppError so the HTTP layer can map
// them without knowing about picks or chart:
//
//	DATA_SOURCE     the picks source could not be read (503)
//	UNPROCESSABLE   an event refers to a dataset the chart lacks (422)
//	VALIDATION      an event kind the state machine does not know (400)
//	CONFIG          invalid picks configuration at construction
package services
