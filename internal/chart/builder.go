package chart

import (
	"math"
	"time"

	"pickchart/pkg/contracts/domain"
)

// GapPolicy decides what happens to a series with a missing price after the baseline.
type GapPolicy string

const (
	// GapLenient keeps the series and leaves a null gap in the line.
	GapLenient GapPolicy = "lenient"
	// GapStrict drops the whole series.
	GapStrict GapPolicy = "strict"
)

// Defaults used when Options fields are left zero.
const (
	DefaultWindow              = 44
	DefaultYMin                = -30.0
	DefaultYSuggestedMax       = 30.0
	DefaultObservationInterval = 7 * 24 * time.Hour
)

// Options controls how records become a chart.
type Options struct {
	// Now is the reference time for recency. Zero means time.Now().
	Now time.Time
	// RecencyAlpha fades older picks by applying their transparency to the line color.
	RecencyAlpha bool
	GapPolicy    GapPolicy
	// Window is the number of x positions used when no series is present.
	Window        int
	YMin          float64
	YSuggestedMax float64
	// ObservationStart, when set, dates each price index as
	// ObservationStart + i*ObservationInterval for tooltips.
	ObservationStart    time.Time
	ObservationInterval time.Duration
}

// DefaultOptions returns the options used by the web frontend.
func DefaultOptions() Options {
	return Options{
		RecencyAlpha:        true,
		GapPolicy:           GapLenient,
		Window:              DefaultWindow,
		YMin:                DefaultYMin,
		YSuggestedMax:       DefaultYSuggestedMax,
		ObservationInterval: DefaultObservationInterval,
	}
}

func (o Options) normalized() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.GapPolicy == "" {
		o.GapPolicy = GapLenient
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.YMin == 0 && o.YSuggestedMax == 0 {
		o.YMin = DefaultYMin
		o.YSuggestedMax = DefaultYSuggestedMax
	}
	if o.ObservationInterval <= 0 {
		o.ObservationInterval = DefaultObservationInterval
	}
	return o
}

// Axis is a linear chart axis. Nil bounds are left to the renderer.
type Axis struct {
	Type         string   `json:"type"`
	Position     string   `json:"position,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	SuggestedMax *float64 `json:"suggestedMax,omitempty"`
}

// Scales holds both chart axes.
type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

// Interaction configures hover behaviour in the renderer.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Diagnostics summarizes what was left out of a chart.
type Diagnostics struct {
	Dropped  int                  `json:"dropped"`
	Gaps     int                  `json:"gaps"`
	Warnings int                  `json:"warnings"`
	Invalid  []InvalidSeriesError `json:"invalid,omitempty"`
}

// Chart is the renderer-ready line chart.
type Chart struct {
	Type             string        `json:"type"`
	Labels           []int         `json:"labels"`
	Datasets         []Series      `json:"datasets"`
	Legend           []LegendEntry `json:"legend"`
	Scales           Scales        `json:"scales"`
	Interaction      Interaction   `json:"interaction"`
	Tooltip          Interaction   `json:"tooltip"`
	ObservationDates []string      `json:"observationDates,omitempty"`
	State            State         `json:"state"`
	Diagnostics      Diagnostics   `json:"diagnostics"`
}

// Sectors lists the distinct sectors of records in first-seen order.
func Sectors(records []domain.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Sector]; ok {
			continue
		}
		seen[r.Sector] = struct{}{}
		out = append(out, r.Sector)
	}
	return out
}

// Build converts records into a chart with every series visible.
//
// Sector colors are ranked over all records, so a sector whose every record
// is dropped still consumes its hue. Datasets are grouped by sector in
// first-seen order and keep source order within a sector. Records that
// cannot be charted are counted in Diagnostics and never fail the build.
func Build(records []domain.Record, opts Options) *Chart {
	opts = opts.normalized()

	sectors := Sectors(records)
	palette := Palette(sectors)

	bySector := make(map[string][]int, len(sectors))
	for i, r := range records {
		bySector[r.Sector] = append(bySector[r.Sector], i)
	}

	c := &Chart{
		Type:        "line",
		Datasets:    []Series{},
		Interaction: Interaction{Mode: "index", Intersect: false},
		Tooltip:     Interaction{Mode: "nearest", Intersect: false},
		State:       AllVisible(),
	}

	window := 0
	for _, sector := range sectors {
		for _, idx := range bySector[sector] {
			s, gaps, err := newSeries(idx, records[idx], palette[sector], opts)
			if err != nil {
				c.Diagnostics.Dropped++
				c.Diagnostics.Invalid = append(c.Diagnostics.Invalid, *err)
				continue
			}
			c.Diagnostics.Gaps += gaps
			c.Datasets = append(c.Datasets, s)
			if len(s.PercentChanges) > window {
				window = len(s.PercentChanges)
			}
		}
	}
	if window == 0 {
		window = opts.Window
	}

	c.Labels = make([]int, window)
	for i := range c.Labels {
		c.Labels[i] = i + 1
	}

	if !opts.ObservationStart.IsZero() {
		c.ObservationDates = ObservationDates(opts.ObservationStart, opts.ObservationInterval, window)
	}

	for i := range c.Datasets {
		c.Datasets[i].Tooltips = seriesTooltips(c.Datasets[i], c.ObservationDates)
	}

	xMin, xMax := 1.0, float64(window)
	yMin, yMax := opts.YMin, opts.YSuggestedMax
	c.Scales = Scales{
		X: Axis{Type: "linear", Position: "bottom", Min: &xMin, Max: &xMax},
		Y: Axis{Type: "linear", Min: &yMin, SuggestedMax: &yMax},
	}

	c.Legend = Legend(c.Datasets)
	return c
}

func newSeries(idx int, r domain.Record, color Color, opts Options) (Series, int, *InvalidSeriesError) {
	invalid := func(reason string) *InvalidSeriesError {
		return &InvalidSeriesError{Record: idx, Sector: r.Sector, Ticker: r.Ticker, Reason: reason}
	}

	changes, err := PercentChanges(r.Prices)
	if err != nil {
		return Series{}, 0, invalid(err.Error())
	}

	gaps := 0
	for _, v := range changes {
		if math.IsNaN(v) {
			gaps++
		}
	}
	if gaps > 0 && opts.GapPolicy == GapStrict {
		return Series{}, 0, invalid(ReasonGap)
	}

	transparency := Transparency(r.DateAdded, opts.Now)
	alpha := 1.0
	if opts.RecencyAlpha {
		alpha = math.Min(1, transparency)
	}

	return Series{
		Label:          r.Sector,
		Ticker:         r.Ticker,
		StartDate:      r.DateAdded,
		Color:          color,
		Alpha:          alpha,
		Transparency:   transparency,
		PercentChanges: changes,
		Record:         idx,
	}, gaps, nil
}

// ObservationDates dates n price indices starting at start.
func ObservationDates(start time.Time, interval time.Duration, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * interval).Format(domain.DateLayout)
	}
	return out
}
