package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"pickchart/internal/chart"
	"pickchart/pkg/contracts/domain"
)

// Fixed leading columns of a series export. One column per chart label
// follows them.
var seriesColumns = []string{"sector", "ticker", "added", "color", "hidden"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	// SkipHidden leaves out series the current state hides.
	SkipHidden bool
}

// SeriesHeaders returns the header row for c. Label columns use the
// observation date when the chart has one, otherwise the day number.
func SeriesHeaders(c *chart.Chart) []string {
	headers := make([]string, 0, len(seriesColumns)+len(c.Labels))
	headers = append(headers, seriesColumns...)
	for i, label := range c.Labels {
		if i < len(c.ObservationDates) {
			headers = append(headers, c.ObservationDates[i])
			continue
		}
		headers = append(headers, formatInt(label))
	}
	return headers
}

// SeriesRecords returns one row per dataset of c in dataset order. Percent
// changes are padded with empty cells to the label count.
func SeriesRecords(c *chart.Chart, opts WriteOptions) [][]string {
	records := make([][]string, 0, len(c.Datasets))
	for _, s := range c.Datasets {
		if opts.SkipHidden && s.Hidden {
			continue
		}

		added := ""
		if !s.StartDate.IsZero() {
			added = s.StartDate.Format(domain.DateLayout)
		}

		row := make([]string, 0, len(seriesColumns)+len(c.Labels))
		row = append(row, s.Label, s.Ticker, added, s.Color.String(), formatBool(s.Hidden))
		for i := range c.Labels {
			v := ""
			if i < len(s.PercentChanges) {
				v = formatFloat(s.PercentChanges[i])
			}
			row = append(row, v)
		}
		records = append(records, row)
	}
	return records
}

// WriteSeries writes the percent-change table of c to w.
func WriteSeries(w io.Writer, c *chart.Chart, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(SeriesHeaders(c)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range SeriesRecords(c, opts) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSeriesFile writes the series table to path, creating parent
// directories as needed. An existing file is replaced.
func WriteSeriesFile(path string, c *chart.Chart, opts WriteOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Writing series CSV",
		slog.String("file_path", path),
		slog.Int("series", len(c.Datasets)),
		slog.Int("columns", len(c.Labels)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteSeries(file, c, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
