package chart

import (
	"errors"
	"fmt"
)

// ErrUnknownDataset is returned when an event names a dataset the chart does not have.
var ErrUnknownDataset = errors.New("unknown dataset")

// Mode is the top-level visibility mode.
type Mode string

const (
	ModeAllVisible Mode = "ALL_VISIBLE"
	ModeIsolated   Mode = "ISOLATED"
)

// State is the visibility state of a chart. It is a plain value; callers
// keep it between events and pass it back in.
//
// In ModeIsolated only the Sector's series are shown. When Focus is set,
// only that one dataset is shown and FocusHidden toggles it off and on.
type State struct {
	Mode        Mode   `json:"mode" validate:"required,oneof=ALL_VISIBLE ISOLATED"`
	Sector      string `json:"sector,omitempty" validate:"required_if=Mode ISOLATED"`
	Focus       *int   `json:"focus,omitempty" validate:"omitempty,min=0"`
	FocusHidden bool   `json:"focusHidden,omitempty"`
}

// AllVisible is the initial state.
func AllVisible() State {
	return State{Mode: ModeAllVisible}
}

// Isolated shows only the series of sector.
func Isolated(sector string) State {
	return State{Mode: ModeIsolated, Sector: sector}
}

func (s State) String() string {
	switch {
	case s.Mode != ModeIsolated:
		return string(ModeAllVisible)
	case s.Focus == nil:
		return fmt.Sprintf("%s(%s)", ModeIsolated, s.Sector)
	default:
		return fmt.Sprintf("%s(%s, focus=%d, hidden=%t)", ModeIsolated, s.Sector, *s.Focus, s.FocusHidden)
	}
}

// ClickLegendEntry isolates sector, or restores everything when sector is
// already isolated.
func (s State) ClickLegendEntry(sector string) State {
	if s.Mode == ModeIsolated && s.Sector == sector {
		return AllVisible()
	}
	return Isolated(sector)
}

// ClickBackground restores every series.
func (s State) ClickBackground() State {
	return AllVisible()
}

// ClickDataPoint focuses the dataset at index. Clicking the series that is
// already the only one shown, either focused or the sole member of the
// isolated sector, toggles its visibility.
func (s State) ClickDataPoint(datasets []Series, index int) (State, error) {
	if index < 0 || index >= len(datasets) {
		return s, fmt.Errorf("%w: %d", ErrUnknownDataset, index)
	}

	label := datasets[index].Label
	if s.Mode == ModeIsolated && s.Sector == label {
		switch {
		case s.Focus != nil && *s.Focus == index:
			next := s
			next.FocusHidden = !s.FocusHidden
			return next, nil
		case s.Focus == nil && sectorSize(datasets, label) == 1:
			focus := index
			return State{Mode: ModeIsolated, Sector: label, Focus: &focus, FocusHidden: true}, nil
		}
	}

	focus := index
	return State{Mode: ModeIsolated, Sector: label, Focus: &focus}, nil
}

func sectorSize(datasets []Series, label string) int {
	n := 0
	for _, d := range datasets {
		if d.Label == label {
			n++
		}
	}
	return n
}

// Visible reports whether the dataset at index is shown in state s.
func (s State) Visible(datasets []Series, index int) bool {
	if index < 0 || index >= len(datasets) {
		return false
	}
	if s.Mode != ModeIsolated {
		return true
	}
	if s.Focus == nil {
		return datasets[index].Label == s.Sector
	}
	return index == *s.Focus && !s.FocusHidden
}

// Hidden returns the hidden flag of every dataset in state s.
func (s State) Hidden(datasets []Series) []bool {
	out := make([]bool, len(datasets))
	for i := range datasets {
		out[i] = !s.Visible(datasets, i)
	}
	return out
}

// Normalize fits a state received from a client to the datasets it refers
// to. An isolated sector that no longer exists falls back to ModeAllVisible,
// and a focus that no longer points into the sector is cleared.
func (s State) Normalize(datasets []Series) State {
	if s.Mode != ModeIsolated {
		return AllVisible()
	}

	found := false
	for _, d := range datasets {
		if d.Label == s.Sector {
			found = true
			break
		}
	}
	if !found {
		return AllVisible()
	}

	if s.Focus != nil {
		f := *s.Focus
		if f < 0 || f >= len(datasets) || datasets[f].Label != s.Sector {
			return Isolated(s.Sector)
		}
	} else {
		s.FocusHidden = false
	}
	return s
}

// Apply sets every dataset's hidden flag from state and rebuilds the legend.
func (c *Chart) Apply(state State) {
	state = state.Normalize(c.Datasets)
	for i, hidden := range state.Hidden(c.Datasets) {
		c.Datasets[i].Hidden = hidden
	}
	c.Legend = Legend(c.Datasets)
	c.State = state
}

// EventKind names a user interaction.
type EventKind string

const (
	EventLegendClick     EventKind = "legend"
	EventPointClick      EventKind = "point"
	EventBackgroundClick EventKind = "background"
)

// ErrUnknownEvent is returned for an EventKind Handle does not recognise.
var ErrUnknownEvent = errors.New("unknown event")

// Event is a single user interaction with the chart.
type Event struct {
	Kind EventKind
	// Sector is the legend entry clicked, for EventLegendClick.
	Sector string
	// DatasetIndex is the dataset clicked, for EventPointClick.
	DatasetIndex int
}

// Handle returns the state that follows ev.
func (s State) Handle(datasets []Series, ev Event) (State, error) {
	s = s.Normalize(datasets)
	switch ev.Kind {
	case EventLegendClick:
		return s.ClickLegendEntry(ev.Sector), nil
	case EventPointClick:
		return s.ClickDataPoint(datasets, ev.DatasetIndex)
	case EventBackgroundClick:
		return s.ClickBackground(), nil
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
}
