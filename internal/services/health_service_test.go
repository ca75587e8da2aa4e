package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pickchart/internal/picks"
	"pickchart/internal/shared/testutil"
	"pickchart/pkg/contracts/domain"
)

func TestHealthService_HealthAndLiveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "", "", nil, logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(m *MockRowsSource)
		wantStatus string
		wantMsg    string
	}{
		{
			name: "source readable",
			setup: func(m *MockRowsSource) {
				m.On("Rows", mock.Anything).Return(&picks.LoadResult{Records: []domain.Record{{Sector: "Tech"}}}, nil)
				m.On("Source").Return("picks.csv")
			},
			wantStatus: "ready",
			wantMsg:    "1 records in picks.csv",
		},
		{
			name: "source missing",
			setup: func(m *MockRowsSource) {
				m.On("Rows", mock.Anything).Return(nil, errors.New("picks source unavailable"))
				m.On("Source").Return("picks.csv")
			},
			wantStatus: "not_ready",
			wantMsg:    "picks source unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockRowsSource)
			tt.setup(src)
			logger, _ := testutil.NewTestLogger(t)

			status := NewHealthService("1.0.0", "", "", src, logger).ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantMsg, status.Services["picks"].Message)
			src.AssertExpectations(t)
		})
	}
}

func TestHealthService_ReadinessWithoutData(t *testing.T) {
	status := NewHealthService("1.0.0", "", "", nil, nil).ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.0.0", "2026-01-01T00:00:00Z", "abc123", nil, nil)

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "abc123", v["git_commit"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])

	assert.NotContains(t, NewHealthService("1.0.0", "", "", nil, nil).Version(), "git_commit")
}
