package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pickchart/internal/errors"
	api "pickchart/pkg/contracts/api/v1"
	"pickchart/pkg/contracts/domain"
)

// DataHandler serves the parsed picks table
type DataHandler struct {
	service      ChartServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service ChartServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/picks", h.GetPicks)
	return r
}

// GetPicks handles GET /api/data/picks.
//
// The body is the array of records, each encoded as
// [sector, date, ticker, price...]. Parse warnings and skipped rows are
// reported in headers so the body stays a plain table.
func (h *DataHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Rows(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	source := res.Path
	if source == "" {
		source = h.service.Source()
	}
	w.Header().Set(api.HeaderPicksSource, source)
	w.Header().Set(api.HeaderPicksWarnings, strconv.Itoa(len(res.Warnings)))
	w.Header().Set(api.HeaderPicksSkipped, strconv.Itoa(res.Skipped))

	if len(res.Warnings) > 0 {
		h.logger.DebugContext(r.Context(), "serving picks with parse warnings",
			slog.Int("warnings", len(res.Warnings)),
			slog.Int("records", len(res.Records)))
	}

	records := res.Records
	if records == nil {
		records = []domain.Record{}
	}
	render.JSON(w, r, records)
}
