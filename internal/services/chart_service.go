package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"pickchart/internal/chart"
	"pickchart/internal/config"
	apierrors "pickchart/internal/errors"
	"pickchart/internal/infrastructure"
	"pickchart/internal/picks"
)

// PicksLoader reads a picks source. *picks.Loader is the production implementation.
type PicksLoader interface {
	LoadRecords(ctx context.Context, source string) (*picks.LoadResult, error)
}

// ChartService loads the picks source and turns it into charts. It keeps no
// state between calls: every call reads the source, and concurrent calls
// share one read.
type ChartService struct {
	loader  PicksLoader
	source  string
	cfg     config.PicksConfig
	options chart.Options
	group   singleflight.Group
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// ChartServiceOption customizes a ChartService
type ChartServiceOption func(*ChartService)

// WithTracer sets the tracer used for load spans
func WithTracer(tracer trace.Tracer) ChartServiceOption {
	return func(s *ChartService) { s.tracer = tracer }
}

// WithMetrics sets the instruments load results are recorded on
func WithMetrics(metrics *infrastructure.BusinessMetrics) ChartServiceOption {
	return func(s *ChartService) { s.metrics = metrics }
}

// WithClock replaces time.Now as the recency reference
func WithClock(now func() time.Time) ChartServiceOption {
	return func(s *ChartService) { s.now = now }
}

// NewChartService creates a chart service reading cfg.Source through loader
func NewChartService(loader PicksLoader, cfg config.PicksConfig, logger *slog.Logger, opts ...ChartServiceOption) (*ChartService, error) {
	options, err := ChartOptions(cfg)
	if err != nil {
		return nil, apierrors.NewConfigError("invalid picks configuration", err)
	}

	s := &ChartService{
		loader:  loader,
		source:  config.ResolveSource(cfg.Source),
		cfg:     cfg,
		options: options,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  infrastructure.WithComponent(logger, "chart_service"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("chart service initialized",
		slog.String("source", s.source),
		slog.Int("window", options.Window),
		slog.String("gap_policy", string(options.GapPolicy)),
		slog.Duration("load_timeout", cfg.LoadTimeout))

	return s, nil
}

// ChartOptions maps the picks configuration onto builder options
func ChartOptions(cfg config.PicksConfig) (chart.Options, error) {
	opts := chart.DefaultOptions()

	switch chart.GapPolicy(cfg.GapPolicy) {
	case "":
	case chart.GapLenient, chart.GapStrict:
		opts.GapPolicy = chart.GapPolicy(cfg.GapPolicy)
	default:
		return opts, fmt.Errorf("unknown gap policy %q", cfg.GapPolicy)
	}

	start, err := cfg.ObservationStartTime()
	if err != nil {
		return opts, fmt.Errorf("observation start: %w", err)
	}
	opts.ObservationStart = start

	if cfg.Window > 0 {
		opts.Window = cfg.Window
	}
	if cfg.ObservationInterval > 0 {
		opts.ObservationInterval = cfg.ObservationInterval
	}
	if cfg.YMin != 0 || cfg.YSuggestedMax != 0 {
		opts.YMin = cfg.YMin
		opts.YSuggestedMax = cfg.YSuggestedMax
	}
	opts.RecencyAlpha = cfg.RecencyAlpha

	return opts, nil
}

// Source is the resolved path of the picks source
func (s *ChartService) Source() string {
	return s.source
}

// Rows loads the picks table as parsed records, in source order
func (s *ChartService) Rows(ctx context.Context) (*picks.LoadResult, error) {
	return s.load(ctx)
}

// Chart loads the picks table and builds a chart with every series visible
func (s *ChartService) Chart(ctx context.Context) (*chart.Chart, error) {
	return s.build(ctx, chart.AllVisible())
}

// Interact rebuilds the chart, applies ev to state and returns the chart in
// the resulting state. Chart.State carries the state to send back next time.
func (s *ChartService) Interact(ctx context.Context, state chart.State, ev chart.Event) (*chart.Chart, error) {
	res, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	c := s.buildFrom(ctx, res)
	next, err := state.Handle(c.Datasets, ev)
	if err != nil {
		if errors.Is(err, chart.ErrUnknownDataset) {
			return nil, apierrors.NewUnprocessableError("event refers to a dataset the chart does not have", err).
				WithContext("dataset_index", ev.DatasetIndex).
				WithContext("datasets", len(c.Datasets))
		}
		return nil, apierrors.NewAppValidationError(err.Error())
	}

	c.Apply(next)
	s.logger.DebugContext(ctx, "chart interaction applied",
		slog.String("event", string(ev.Kind)),
		slog.String("from", state.String()),
		slog.String("to", next.String()))
	return c, nil
}

func (s *ChartService) build(ctx context.Context, state chart.State) (*chart.Chart, error) {
	res, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	c := s.buildFrom(ctx, res)
	c.Apply(state)
	return c, nil
}

func (s *ChartService) buildFrom(ctx context.Context, res *picks.LoadResult) *chart.Chart {
	opts := s.options
	opts.Now = s.now()

	c := chart.Build(res.Records, opts)
	c.Diagnostics.Warnings = len(res.Warnings)

	if c.Diagnostics.Dropped > 0 {
		byReason := make(map[string]int)
		for _, inv := range c.Diagnostics.Invalid {
			byReason[inv.Reason]++
		}
		for reason, n := range byReason {
			s.metrics.RecordDropped(ctx, reason, n)
		}

		s.logger.WarnContext(ctx, "series dropped from chart",
			slog.String("source", s.source),
			slog.Int("dropped", c.Diagnostics.Dropped),
			slog.Any("reasons", byReason))
	}
	return c
}

// load reads the source once per burst of concurrent callers. The shared read
// runs detached from any single caller's cancellation and is bounded by
// LoadTimeout; each caller still returns early when its own context ends.
func (s *ChartService) load(ctx context.Context) (*picks.LoadResult, error) {
	ch := s.group.DoChan(s.source, func() (interface{}, error) {
		return s.loadOnce(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, apierrors.NewDataSourceError("picks load cancelled",
			&picks.DataSourceError{Source: s.source, Op: "read", Err: ctx.Err()})
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*picks.LoadResult), nil
	}
}

func (s *ChartService) loadOnce(ctx context.Context) (*picks.LoadResult, error) {
	if s.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LoadTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "picks.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("picks.source", s.source)),
	)
	defer span.End()

	start := time.Now()
	res, err := s.loader.LoadRecords(ctx, s.source)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "picks load failed")
		s.metrics.RecordLoad(ctx, s.source, duration, 0, 0, err)

		s.logger.ErrorContext(ctx, "picks load failed",
			slog.String("source", s.source),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))

		return nil, apierrors.NewDataSourceError("picks source unavailable", err).
			WithContext("source", s.source)
	}

	span.SetAttributes(
		attribute.Int("picks.records", len(res.Records)),
		attribute.Int("picks.skipped", res.Skipped),
		attribute.Int("picks.warnings", len(res.Warnings)),
	)
	s.metrics.RecordLoad(ctx, s.source, duration, len(res.Records), len(res.Warnings), nil)

	s.logger.InfoContext(ctx, "picks loaded",
		slog.String("source", s.source),
		slog.Int("records", len(res.Records)),
		slog.Int("skipped", res.Skipped),
		slog.Int("warnings", len(res.Warnings)),
		slog.Duration("duration", duration))

	return res, nil
}
