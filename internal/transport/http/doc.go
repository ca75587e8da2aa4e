// Package http implements the HTTP handlers of the pickchart web service.
// Handlers stay thin: they parse and validate the request, call the chart
// service, and render JSON. Every failure goes through the shared
// ErrorHandler and comes back as an RFC 7807 problem document.
//
// # Routes
//
//	GET  /api/data/picks           parsed picks table
//	GET  /api/chart                chart model in the initial state
//	POST /api/chart/interactions   apply one click to a client-held state
//	GET  /api/health[/ready|/live] health probes
//	GET  /api/version              build information
//	GET  /metrics                  Prometheus scrape endpoint
//	GET  /*                        embedded chart page
//
// # Interactions
//
// The server keeps no per-user state. A client posts the state it shows
// and one event:
//
//	{
//	    "state": {"mode": "ISOLATED", "sector": "Energy"},
//	    "event": {"kind": "point", "datasetIndex": 3}
//	}
//
// and receives the full chart with every dataset's hidden flag and the
// next state under "state".
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// ChartServiceInterface.
package http
