// Package api contains the request and response bodies of the pickchart HTTP API.
// Version v1 represents the current stable API version.
package api

// ChartState is the visibility state a client holds between interactions.
// It is echoed back in every chart response under "state".
type ChartState struct {
	Mode        string `json:"mode" validate:"required,oneof=ALL_VISIBLE ISOLATED"`
	Sector      string `json:"sector,omitempty" validate:"required_if=Mode ISOLATED"`
	Focus       *int   `json:"focus,omitempty" validate:"omitempty,min=0"`
	FocusHidden bool   `json:"focusHidden,omitempty"`
}

// ChartEvent is one click on the chart.
type ChartEvent struct {
	Kind string `json:"kind" validate:"required,oneof=legend point background"`
	// Sector is the clicked legend entry
	Sector string `json:"sector,omitempty" validate:"required_if=Kind legend"`
	// DatasetIndex is the dataset owning the clicked point
	DatasetIndex *int `json:"datasetIndex,omitempty" validate:"required_if=Kind point"`
}

// InteractionRequest is the body of POST /api/chart/interactions
type InteractionRequest struct {
	State ChartState `json:"state"`
	Event ChartEvent `json:"event"`
}
