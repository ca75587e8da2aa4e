package http

import (
	"context"

	"pickchart/internal/chart"
	"pickchart/internal/picks"
)

// ChartServiceInterface is what the data and chart handlers need from the
// service layer.
type ChartServiceInterface interface {
	Source() string
	Rows(ctx context.Context) (*picks.LoadResult, error)
	Chart(ctx context.Context) (*chart.Chart, error)
	Interact(ctx context.Context, state chart.State, ev chart.Event) (*chart.Chart, error)
}
