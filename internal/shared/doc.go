// Package shared holds helpers used by more than one pickchart package.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records for assertions
//   - picks fixtures (SamplePicksCSV, WriteSamplePicks) for loader, service
//     and handler tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteSamplePicks(t)
//	    // ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "picks loaded")
//	}
//
// Nothing here carries domain logic, and nothing here imports other
// internal packages.
package shared
