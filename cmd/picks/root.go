package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"pickchart/internal/chart"
	"pickchart/internal/config"
	"pickchart/internal/infrastructure"
	"pickchart/internal/picks"
	"pickchart/internal/services"
	"pickchart/pkg/contracts"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	gapPolicy string
	window    int
	now       string
	noAlpha   bool
	obsStart  string
	logLevel  string
	timeout   time.Duration
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &globalFlags{}
	defaults := config.Default().Picks

	root := &cobra.Command{
		Use:           "picks",
		Short:         "Inspect a stock picks table and the chart built from it",
		Version:       contracts.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.gapPolicy, "gap-policy", defaults.GapPolicy, "missing later prices: lenient keeps a gap, strict drops the series")
	pf.IntVar(&flags.window, "window", defaults.Window, "x positions used when no series is present")
	pf.StringVar(&flags.now, "now", "", "reference date for recency (YYYY-MM-DD, default today)")
	pf.BoolVar(&flags.noAlpha, "no-alpha", false, "draw every line opaque")
	pf.StringVar(&flags.obsStart, "observation-start", "", "date of the first price column (YYYY-MM-DD)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	pf.DurationVar(&flags.timeout, "timeout", defaults.LoadTimeout, "give up reading the source after this long")

	root.AddCommand(
		newRowsCmd(flags),
		newSeriesCmd(flags),
		newChartCmd(flags),
		newExportCmd(flags),
	)
	return root
}

// options maps the flags onto builder options the same way the web
// service maps its configuration.
func (f *globalFlags) options() (chart.Options, error) {
	cfg := config.Default().Picks
	cfg.GapPolicy = f.gapPolicy
	cfg.Window = f.window
	cfg.RecencyAlpha = !f.noAlpha
	cfg.ObservationStart = f.obsStart

	opts, err := services.ChartOptions(cfg)
	if err != nil {
		return opts, err
	}

	if f.now != "" {
		now, err := time.Parse("2006-01-02", f.now)
		if err != nil {
			return opts, fmt.Errorf("--now: %w", err)
		}
		opts.Now = now
	}
	return opts, nil
}

// load reads source with a logger writing JSON diagnostics to stderr
func (f *globalFlags) load(cmd *cobra.Command, source string) (*picks.LoadResult, error) {
	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), f.logLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()

	res, err := picks.NewLoader(logger).LoadRecords(ctx, config.ResolveSource(source))
	if err != nil {
		return nil, fmt.Errorf("cannot read picks: %w", err)
	}

	for _, w := range res.Warnings {
		logger.Warn("unreadable cell", slog.String("warning", w.String()))
	}
	return res, nil
}

func sourceArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return config.DefaultSourceFile
}
