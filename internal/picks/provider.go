package picks

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pickchart/internal/files"
	"pickchart/pkg/contracts/domain"
)

// Column layout of a picks row: sector, date added, ticker, then prices.
const (
	colSector = iota
	colDate
	colTicker
	colFirstPrice

	minFields = colFirstPrice + 1
)

var dateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
	"2-Jan-2006",
	"Jan 2, 2006",
}

// LoadResult is the outcome of reading one picks source.
type LoadResult struct {
	Records  []domain.Record
	Warnings []ParseWarning
	// Skipped counts section header and empty-sector rows.
	Skipped int
	// Path is the file that was read. It differs from the requested source
	// when that source is a directory.
	Path string
}

// Loader reads picks tables from CSV or XLSX sources.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that logs through the given logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "picks_loader"))}
}

// LoadRecords reads the picks table at source. A directory source resolves to
// its newest .csv or .xlsx file. Files ending in .xlsx are read from their
// first sheet; anything else is parsed as comma-separated text. Header and
// empty-sector rows are dropped and the remaining rows keep their source order.
func (l *Loader) LoadRecords(ctx context.Context, source string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, sourceError(source, "open", err)
	}

	path, err := resolvePath(source)
	if err != nil {
		return nil, sourceError(source, "discover", err)
	}
	if path != source {
		l.logger.DebugContext(ctx, "picks directory resolved",
			slog.String("source", source),
			slog.String("file", path))
	}

	var res *LoadResult
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		res, err = l.loadXLSX(ctx, path)
	} else {
		res, err = l.loadCSVFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

func (l *Loader) loadCSVFile(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceError(path, "open", err)
	}
	defer f.Close()

	return l.ReadCSV(ctx, f, path)
}

// resolvePath maps a directory source to its newest picks file. Anything
// else, including a missing path, is returned unchanged for open to report.
func resolvePath(source string) (string, error) {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return source, nil
	}
	return files.NewDiscovery("").LatestPicksFile(source)
}

// ReadCSV parses a picks table from r. name is only used in errors and logs.
func (l *Loader) ReadCSV(ctx context.Context, r io.Reader, name string) (*LoadResult, error) {
	reader := csv.NewReader(ctxReader{ctx: ctx, r: r})
	reader.TrimLeadingSpace = true

	p := newRowParser(name)
	for {
		if err := ctx.Err(); err != nil {
			return nil, sourceError(name, "read", err)
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, sourceError(name, "read", ctxErr)
			}
			return nil, sourceError(name, "parse", err)
		}

		line, _ := reader.FieldPos(0)
		if err := p.add(row, line); err != nil {
			return nil, err
		}
	}

	l.logResult(ctx, name, p.result)
	return p.result, nil
}

func (l *Loader) logResult(ctx context.Context, name string, res *LoadResult) {
	l.logger.DebugContext(ctx, "picks source parsed",
		slog.String("source", name),
		slog.Int("records", len(res.Records)),
		slog.Int("skipped", res.Skipped),
		slog.Int("warnings", len(res.Warnings)))

	for _, w := range res.Warnings {
		l.logger.DebugContext(ctx, "unreadable cell",
			slog.String("source", name),
			slog.Int("row", w.Row),
			slog.Int("column", w.Column),
			slog.String("value", w.Value))
	}
}

// rowParser turns raw rows into records, collecting warnings as it goes.
type rowParser struct {
	source string
	result *LoadResult
}

func newRowParser(source string) *rowParser {
	return &rowParser{
		source: source,
		result: &LoadResult{Records: []domain.Record{}},
	}
}

func (p *rowParser) add(row []string, line int) error {
	if len(row) == 0 {
		p.result.Skipped++
		return nil
	}

	sector := strings.TrimSpace(strings.TrimPrefix(row[colSector], "\ufeff"))
	if sector == "" || domain.IsSectionHeader(sector) {
		p.result.Skipped++
		return nil
	}

	if len(row) < minFields {
		return sourceError(p.source, "parse",
			fmt.Errorf("row %d: expected at least %d fields, got %d", line, minFields, len(row)))
	}

	rec := domain.Record{
		Sector: sector,
		Ticker: strings.TrimSpace(row[colTicker]),
		Prices: make([]float64, 0, len(row)-colFirstPrice),
	}

	if raw := strings.TrimSpace(row[colDate]); raw != "" {
		if d, ok := parseDate(raw); ok {
			rec.DateAdded = d
		} else {
			p.warn(line, colDate+1, raw)
		}
	}

	for i, cell := range row[colFirstPrice:] {
		v, ok := parsePrice(cell)
		if !ok {
			p.warn(line, colFirstPrice+i+1, cell)
		}
		rec.Prices = append(rec.Prices, v)
	}

	p.result.Records = append(p.result.Records, rec)
	return nil
}

func (p *rowParser) warn(row, column int, value string) {
	p.result.Warnings = append(p.result.Warnings, ParseWarning{Row: row, Column: column, Value: value})
}

// parsePrice reads a price cell. Unreadable cells yield NaN and false.
func parsePrice(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "-":
		return math.NaN(), false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ctxReader stops an in-flight read once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
