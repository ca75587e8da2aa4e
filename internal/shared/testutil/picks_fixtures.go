package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SamplePicksCSV mirrors the layout of the published picks sheet: section
// marker rows, a header-less body and trailing weekly closes.
const SamplePicksCSV = `VALUE INVESTING,,,,,
Technology,2024-01-02,AAPL,185.64,181.91,195.71
Energy,2024-01-09,XOM,100.18,98.71,
GROWTH INVESTING,,,,,
Technology,,MSFT,370.87,388.47,403.78
Healthcare,2024-02-01,PFE,28.79,27.95,27.64
`

// SampleTickers lists the tickers of SamplePicksCSV in file order
var SampleTickers = []string{"AAPL", "XOM", "MSFT", "PFE"}

// SampleSectors lists sectors of SamplePicksCSV in first-seen order
var SampleSectors = []string{"Technology", "Energy", "Healthcare"}

// WritePicksFile writes content to name inside a per-test temp dir and
// returns the full path.
func WritePicksFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteSamplePicks writes SamplePicksCSV and returns its path
func WriteSamplePicks(t *testing.T) string {
	t.Helper()
	return WritePicksFile(t, "barrons-picks.csv", SamplePicksCSV)
}
