package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"pickchart/pkg/contracts/domain"
)

// Reasons a record cannot become a series.
const (
	ReasonNoPrices     = "no prices"
	ReasonZeroBaseline = "zero baseline price"
	ReasonNaNBaseline  = "missing baseline price"
	ReasonGap          = "missing price inside series"
)

var (
	errNoPrices     = errors.New(ReasonNoPrices)
	errZeroBaseline = errors.New(ReasonZeroBaseline)
	errNaNBaseline  = errors.New(ReasonNaNBaseline)
)

// InvalidSeriesError describes a record that was left out of the chart.
type InvalidSeriesError struct {
	Record int    `json:"record"`
	Sector string `json:"sector"`
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

func (e *InvalidSeriesError) Error() string {
	return fmt.Sprintf("series %s/%s (record %d): %s", e.Sector, e.Ticker, e.Record, e.Reason)
}

// Points is a percent-change sequence. NaN entries are gaps and encode as null.
type Points []float64

// MarshalJSON writes gaps as null so the renderer breaks the line there.
func (p Points) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Series is one ticker's line on the chart.
type Series struct {
	Label     string
	Ticker    string
	StartDate time.Time
	// Color is the sector color; every series of a sector shares it.
	Color Color
	// Alpha is applied to the line color only, see Options.RecencyAlpha.
	Alpha          float64
	Transparency   float64
	PercentChanges Points
	Hidden         bool
	Tooltips       [][]string
	// Record is the position of the source record in the loaded sequence.
	Record int
}

// BorderColor is the color the line is drawn with.
func (s Series) BorderColor() Color {
	return s.Color.WithAlpha(s.Alpha)
}

// MarshalJSON encodes the series in the renderer's dataset shape.
func (s Series) MarshalJSON() ([]byte, error) {
	startDate := ""
	if !s.StartDate.IsZero() {
		startDate = s.StartDate.Format(domain.DateLayout)
	}

	return json.Marshal(struct {
		Label           string     `json:"label"`
		Ticker          string     `json:"ticker"`
		StartDate       string     `json:"startDate"`
		BorderColor     Color      `json:"borderColor"`
		BackgroundColor Color      `json:"backgroundColor"`
		Data            Points     `json:"data"`
		Hidden          bool       `json:"hidden"`
		Transparency    float64    `json:"transparency"`
		Tooltips        [][]string `json:"tooltips"`
		Fill            bool       `json:"fill"`
		Tension         float64    `json:"tension"`
		SpanGaps        bool       `json:"spanGaps"`
	}{
		Label:           s.Label,
		Ticker:          s.Ticker,
		StartDate:       startDate,
		BorderColor:     s.BorderColor(),
		BackgroundColor: s.BorderColor(),
		Data:            s.PercentChanges,
		Hidden:          s.Hidden,
		Transparency:    s.Transparency,
		Tooltips:        s.Tooltips,
	})
}

// PercentChanges expresses every price relative to prices[0]:
// (prices[i] / prices[0] - 1) * 100. The first element is always exactly 0.
// Missing later prices stay NaN. A zero or missing baseline is an error.
func PercentChanges(prices []float64) (Points, error) {
	if len(prices) == 0 {
		return nil, errNoPrices
	}

	base := prices[0]
	switch {
	case math.IsNaN(base) || math.IsInf(base, 0):
		return nil, errNaNBaseline
	case base == 0:
		return nil, errZeroBaseline
	}

	out := make(Points, len(prices))
	for i, p := range prices {
		if math.IsNaN(p) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (p/base - 1) * 100
	}
	return out, nil
}

// Transparency weights a pick by how recently it was added:
// clamp(0, 1.1, 1.1 - daysSince(start)/365). Picks without a date get 1.
func Transparency(start, now time.Time) float64 {
	if start.IsZero() {
		return 1
	}
	days := now.Sub(start).Hours() / 24
	return math.Max(0, math.Min(1.1, 1.1-days/365))
}
