package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"pickchart/internal/chart"
	apierrors "pickchart/internal/errors"
	"pickchart/internal/middleware"
	api "pickchart/pkg/contracts/api/v1"
)

// ChartHandler serves the chart model and applies click interactions to it
type ChartHandler struct {
	service      ChartServiceInterface
	validation   *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service ChartServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetChart)
	r.With(middleware.ContentTypeValidator(h.errorHandler, "application/json")).
		Post("/interactions", h.PostInteraction)
	return r
}

// GetChart handles GET /api/chart. The chart is returned in the initial
// all-visible state.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Chart(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

// PostInteraction handles POST /api/chart/interactions.
//
// The client sends the state it currently shows together with one click.
// The response is the full chart in the state that follows the click.
func (h *ChartHandler) PostInteraction(w http.ResponseWriter, r *http.Request) {
	var req api.InteractionRequest
	if !h.validation.DecodeAndValidate(w, r, &req) {
		return
	}

	state, ev := toState(req.State), toEvent(req.Event)
	c, err := h.service.Interact(r.Context(), state, ev)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "interaction applied",
		slog.String("event", string(ev.Kind)),
		slog.String("from", state.String()),
		slog.String("to", c.State.String()),
		slog.String("request_id", middleware.GetRequestID(r.Context())))

	render.JSON(w, r, c)
}

func toState(s api.ChartState) chart.State {
	out := chart.State{
		Mode:        chart.Mode(s.Mode),
		Sector:      s.Sector,
		FocusHidden: s.FocusHidden,
	}
	if s.Focus != nil {
		f := *s.Focus
		out.Focus = &f
	}
	return out
}

func toEvent(e api.ChartEvent) chart.Event {
	out := chart.Event{Kind: chart.EventKind(e.Kind), Sector: e.Sector}
	if e.DatasetIndex != nil {
		out.DatasetIndex = *e.DatasetIndex
	}
	return out
}
