package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickchart/internal/infrastructure"
	"pickchart/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, ContentTypeProblem, w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type interactionFixture struct {
	Mode   string `validate:"required,oneof=ALL_VISIBLE ISOLATED"`
	Sector string `validate:"required_if=Mode ISOLATED"`
	Focus  int    `validate:"min=0"`
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	h := NewErrorHandler(logger, true)
	assert.True(t, h.includeStack)
	assert.NotNil(t, h.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   interface{}
	}{
		{
			name:       "data source failure",
			err:        NewDataSourceError("picks source unavailable", fmt.Errorf("open barrons-picks.csv: no such file")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataSource,
			wantCode:   CodeDataSourceError,
		},
		{
			name:       "wrapped data source failure",
			err:        fmt.Errorf("chart: %w", NewDataSourceError("picks source unavailable", nil)),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataSource,
			wantCode:   CodeDataSourceError,
		},
		{
			name:       "unknown dataset",
			err:        NewUnprocessableError("cannot apply event", fmt.Errorf("dataset 12")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnknownDataset,
			wantCode:   CodeUnknownDataset,
		},
		{
			name:       "api error",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "rate limited",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantCode:   CodeRateLimitExceeded,
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unclassified error",
			err:        fmt.Errorf("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/chart", nil)
			h.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/chart", body["instance"])
			if tt.wantCode != nil {
				assert.Equal(t, tt.wantCode, body["error_code"])
			} else {
				assert.NotContains(t, body, "error_code")
			}
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_HandleError_TraceAndLogging(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	r := httptest.NewRequest(http.MethodGet, "/api/data/picks", nil)
	r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-123"))
	w := httptest.NewRecorder()

	h.HandleError(w, r, NewDataSourceError("picks source unavailable", nil).WithContext("source", "picks.csv"))

	body := decodeProblem(t, w)
	assert.Equal(t, "trace-123", body["trace_id"])
	assert.Equal(t, "picks.csv", body["source"])
	assert.Contains(t, body, "stack")

	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
	testutil.AssertLogAttr(t, logs, "status", int64(http.StatusServiceUnavailable))
}

func TestErrorHandler_ValidatorErrors(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	err := validator.New().Struct(interactionFixture{Mode: "ISOLATED", Focus: -1})
	require.Error(t, err)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodPost, "/api/chart/interactions", nil), err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, CodeValidationFailed, body["error_code"])

	details := body["details"].(map[string]interface{})
	fields := details["errors"].([]interface{})
	require.Len(t, fields, 2)
	assert.Equal(t, "Sector", fields[0].(map[string]interface{})["field"])
	assert.Equal(t, "Sector is required when Mode is ISOLATED", fields[0].(map[string]interface{})["message"])
	assert.Equal(t, "Focus must be at least 0", fields[1].(map[string]interface{})["message"])

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
}

func TestFieldMessage(t *testing.T) {
	v := validator.New()

	err := v.Struct(interactionFixture{Mode: "SOMETIMES"})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "Mode must be one of: ALL_VISIBLE, ISOLATED", FieldMessage(fieldErrs[0]))

	err = v.Struct(interactionFixture{})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Mode is required", FieldMessage(fieldErrs[0]))
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "production", includeStack: false},
		{name: "development", includeStack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, tt.includeStack)

			w := httptest.NewRecorder()
			h.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/chart", nil), "nil map write")

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, TypeInternal, body["type"])
			if tt.includeStack {
				assert.Equal(t, "nil map write", body["panic"])
				assert.Contains(t, body, "stack")
			} else {
				assert.NotContains(t, body, "panic")
			}
			testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
		})
	}
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/chart", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeMethodNotAllowed, body["type"])
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", body["detail"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusServiceUnavailable, TypeDataSource, "Data Source Unavailable", "", "").
		WithExtension("error_code", CodeDataSourceError).
		WithExtension("type", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "/errors/data/source",
		"title": "Data Source Unavailable",
		"status": 503,
		"error_code": "DATA_SOURCE_ERROR"
	}`, string(data))
}

func TestErrorHandlerConcurrency(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.HandleError(w, httptest.NewRequest(http.MethodGet, "/api/chart", nil), fmt.Errorf("failure %d", i))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, logs.Count())
}
