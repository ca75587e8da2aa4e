package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pickchart/internal/chart"
	"pickchart/internal/picks"
)

// MockPicksLoader is a mock for the PicksLoader interface
type MockPicksLoader struct {
	mock.Mock
}

func (m *MockPicksLoader) LoadRecords(ctx context.Context, source string) (*picks.LoadResult, error) {
	args := m.Called(ctx, source)
	if res := args.Get(0); res != nil {
		return res.(*picks.LoadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRowsSource is a mock for the RowsSource interface
type MockRowsSource struct {
	mock.Mock
}

func (m *MockRowsSource) Source() string {
	return m.Called().String(0)
}

func (m *MockRowsSource) Rows(ctx context.Context) (*picks.LoadResult, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*picks.LoadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockChartService is a mock of the chart service as seen by HTTP handlers
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) Source() string {
	return m.Called().String(0)
}

func (m *MockChartService) Rows(ctx context.Context) (*picks.LoadResult, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*picks.LoadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChartService) Chart(ctx context.Context) (*chart.Chart, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.(*chart.Chart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChartService) Interact(ctx context.Context, state chart.State, ev chart.Event) (*chart.Chart, error) {
	args := m.Called(ctx, state, ev)
	if c := args.Get(0); c != nil {
		return c.(*chart.Chart), args.Error(1)
	}
	return nil, args.Error(1)
}
