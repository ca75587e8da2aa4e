package chart

import (
	"fmt"
	"math"

	"pickchart/pkg/contracts/domain"
)

// LegendEntry is one clickable legend item. Sectors appear once no matter
// how many series they have.
type LegendEntry struct {
	Text         string `json:"text"`
	FillStyle    Color  `json:"fillStyle"`
	StrokeStyle  Color  `json:"strokeStyle"`
	Hidden       bool   `json:"hidden"`
	DatasetIndex int    `json:"datasetIndex"`
}

// Legend returns one entry per distinct label in dataset order. Each entry
// takes its color and hidden flag from the first series carrying the label.
func Legend(datasets []Series) []LegendEntry {
	entries := []LegendEntry{}
	seen := make(map[string]struct{})
	for i, s := range datasets {
		if _, ok := seen[s.Label]; ok {
			continue
		}
		seen[s.Label] = struct{}{}
		entries = append(entries, LegendEntry{
			Text:         s.Label,
			FillStyle:    s.Color,
			StrokeStyle:  s.Color,
			Hidden:       s.Hidden,
			DatasetIndex: i,
		})
	}
	return entries
}

// TooltipLines describes data point index of s:
//
//	Sector: Tech
//	Ticker: AAA
//	Date: 2024-01-08      (or "Added: 2024-01-01" without observation dates)
//	Change: 10.00%
//
// It returns nil when index is outside the series.
func TooltipLines(s Series, index int, observationDates []string) []string {
	if index < 0 || index >= len(s.PercentChanges) {
		return nil
	}

	lines := []string{
		"Sector: " + s.Label,
		"Ticker: " + s.Ticker,
	}

	switch {
	case index < len(observationDates):
		lines = append(lines, "Date: "+observationDates[index])
	case !s.StartDate.IsZero():
		lines = append(lines, "Added: "+s.StartDate.Format(domain.DateLayout))
	default:
		lines = append(lines, "Added: n/a")
	}

	if v := s.PercentChanges[index]; math.IsNaN(v) {
		lines = append(lines, "Change: n/a")
	} else {
		lines = append(lines, fmt.Sprintf("Change: %.2f%%", v))
	}
	return lines
}

func seriesTooltips(s Series, observationDates []string) [][]string {
	out := make([][]string, len(s.PercentChanges))
	for i := range out {
		out[i] = TooltipLines(s, i, observationDates)
	}
	return out
}
