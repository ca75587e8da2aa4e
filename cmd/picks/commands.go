package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pickchart/internal/chart"
	"pickchart/internal/exporter"
	"pickchart/internal/infrastructure"
)

func newRowsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rows [file]",
		Short: "Print the parsed records as the JSON rows the web API serves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.load(cmd, sourceArg(args))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res.Records, false)
		},
	}
}

func newSeriesCmd(flags *globalFlags) *cobra.Command {
	var color bool

	cmd := &cobra.Command{
		Use:   "series [file]",
		Short: "Render the chart series as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			res, err := flags.load(cmd, sourceArg(args))
			if err != nil {
				return err
			}

			c := chart.Build(res.Records, opts)
			c.Diagnostics.Warnings = len(res.Warnings)
			renderSeries(cmd.OutOrStdout(), c, color)
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "color the latest change green or red")
	return cmd
}

func newChartCmd(flags *globalFlags) *cobra.Command {
	var (
		isolate string
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Print the full chart model as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			res, err := flags.load(cmd, sourceArg(args))
			if err != nil {
				return err
			}

			c := chart.Build(res.Records, opts)
			c.Diagnostics.Warnings = len(res.Warnings)
			if err := isolateSector(c, isolate); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c, pretty)
		},
	}
	cmd.Flags().StringVar(&isolate, "isolate", "", "show only this sector, as a legend click would")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON")
	return cmd
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		output      string
		isolate     string
		bom         bool
		visibleOnly bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the percent-change series as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			res, err := flags.load(cmd, sourceArg(args))
			if err != nil {
				return err
			}

			c := chart.Build(res.Records, opts)
			if err := isolateSector(c, isolate); err != nil {
				return err
			}

			wopts := exporter.WriteOptions{BOMPrefix: bom, SkipHidden: visibleOnly}
			if output == "" || output == "-" {
				return exporter.WriteSeries(cmd.OutOrStdout(), c, wopts)
			}
			logger := infrastructure.NewLogger(cmd.ErrOrStderr(), flags.logLevel)
			if err := exporter.WriteSeriesFile(output, c, wopts, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d series to %s\n", len(c.Datasets), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for stdout")
	cmd.Flags().StringVar(&isolate, "isolate", "", "mark every other sector hidden")
	cmd.Flags().BoolVar(&bom, "bom", false, "start the file with a UTF-8 byte order mark for Excel")
	cmd.Flags().BoolVar(&visibleOnly, "visible-only", false, "leave out hidden series")
	return cmd
}

// isolateSector applies a legend click on sector. An empty sector is a no-op.
func isolateSector(c *chart.Chart, sector string) error {
	if sector == "" {
		return nil
	}
	sectors := legendTexts(c.Legend)
	if !slices.Contains(sectors, sector) {
		return fmt.Errorf("unknown sector %q, have %s", sector, strings.Join(sectors, ", "))
	}
	next, err := c.State.Handle(c.Datasets, chart.Event{Kind: chart.EventLegendClick, Sector: sector})
	if err != nil {
		return err
	}
	c.Apply(next)
	return nil
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// renderSeries prints one row per dataset followed by the build diagnostics
func renderSeries(w io.Writer, c *chart.Chart, color bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "SECTOR", "TICKER", "ADDED", "COLOR", "ALPHA", "POINTS", "LATEST", "BEST", "WORST"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 8, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 9, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 10, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})

	for i, s := range c.Datasets {
		added := "-"
		if !s.StartDate.IsZero() {
			added = s.StartDate.Format("2006-01-02")
		}
		latest, best, worst := summarize(s.PercentChanges)
		latestCell := formatChange(latest)
		if color && !math.IsNaN(latest) {
			switch {
			case latest > 0:
				latestCell = text.Colors{text.FgGreen}.Sprint(latestCell)
			case latest < 0:
				latestCell = text.Colors{text.FgRed}.Sprint(latestCell)
			}
		}

		tw.AppendRow(table.Row{
			i, s.Label, s.Ticker, added, s.Color.String(),
			fmt.Sprintf("%.2f", s.Alpha), len(s.PercentChanges),
			latestCell, formatChange(best), formatChange(worst),
		})
	}

	tw.AppendFooter(table.Row{"", "", "", "", "", "", "",
		"", "SERIES", len(c.Datasets)})
	tw.Render()

	d := c.Diagnostics
	fmt.Fprintf(w, "sectors: %s\n", strings.Join(legendTexts(c.Legend), ", "))
	fmt.Fprintf(w, "dropped: %d  gaps: %d  warnings: %d\n", d.Dropped, d.Gaps, d.Warnings)
	for _, inv := range d.Invalid {
		fmt.Fprintf(w, "  %s\n", inv.Error())
	}
}

// summarize returns the last present value and the extremes, NaN when the
// series has no values.
func summarize(points chart.Points) (latest, best, worst float64) {
	latest, best, worst = math.NaN(), math.NaN(), math.NaN()
	for _, v := range points {
		if math.IsNaN(v) {
			continue
		}
		latest = v
		if math.IsNaN(best) || v > best {
			best = v
		}
		if math.IsNaN(worst) || v < worst {
			worst = v
		}
	}
	return latest, best, worst
}

func formatChange(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func legendTexts(entries []chart.LegendEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}
