package exporter

import (
	"math"
	"strconv"
)

// formatFloat writes a value with exactly 2 decimal places so 13.4 reads as
// 13.40 in spreadsheets. Gaps (NaN or Inf) become empty cells.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
