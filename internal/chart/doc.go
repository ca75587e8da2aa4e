// Package chart turns pick records into a percent-change line chart and
// tracks which series are visible.
//
// Build produces one Series per chartable record. Each series is expressed
// relative to its first price, colored by sector and faded by how long ago
// the pick was added. Records with a zero or missing first price are left
// out and reported in Chart.Diagnostics.
//
// Visibility is a small state machine over State values:
//
//	ALL_VISIBLE --legend(S)--> ISOLATED(S)
//	ISOLATED(S) --legend(S)--> ALL_VISIBLE
//	ISOLATED(S) --legend(T)--> ISOLATED(T)
//	any         --background--> ALL_VISIBLE
//	any         --point(i)--> ISOLATED(label(i), focus=i)
//	ISOLATED(label(i), focus=i) --point(i)--> focus hidden toggled
//
// States are values and carry no reference to a chart, so a server can keep
// them on the client and apply them to a freshly built chart with Chart.Apply.
package chart
