package picks

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pickchart/internal/files"
	"pickchart/pkg/contracts/domain"
)

func newTestLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSV_FiltersSectionHeaders(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantTickers []string
		wantSkipped int
	}{
		{
			name:        "value investing marker dropped",
			input:       "VALUE INVESTING,,,,\nTech,2024-01-01,AAA,100,110\n",
			wantTickers: []string{"AAA"},
			wantSkipped: 1,
		},
		{
			name:        "both markers and empty sector dropped",
			input:       "GROWTH INVESTING,,,,\n,,ZZZ,1,2\nHealth,2024-02-01,BBB,50,55\nVALUE INVESTING,,,,\nTech,2024-01-01,AAA,100,110\n",
			wantTickers: []string{"BBB", "AAA"},
			wantSkipped: 3,
		},
		{
			name:        "whitespace-only sector dropped",
			input:       "   ,2024-01-01,AAA,1,2\n",
			wantTickers: []string{},
			wantSkipped: 1,
		},
		{
			name:        "order preserved without sorting",
			input:       "Utilities,,UUU,1,2\nEnergy,,EEE,1,2\nBanks,,BBB,1,2\n",
			wantTickers: []string{"UUU", "EEE", "BBB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader(tt.input), "test.csv")
			require.NoError(t, err)

			tickers := make([]string, 0, len(res.Records))
			for _, r := range res.Records {
				assert.False(t, domain.IsSectionHeader(r.Sector))
				assert.NotEmpty(t, r.Sector)
				tickers = append(tickers, r.Ticker)
			}
			assert.Equal(t, tt.wantTickers, tickers)
			assert.Equal(t, tt.wantSkipped, res.Skipped)
		})
	}
}

func TestReadCSV_ParsesFields(t *testing.T) {
	input := "Tech,2024-01-01,AAA,100,110,90\n"

	res, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader(input), "test.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "Tech", rec.Sector)
	assert.Equal(t, "AAA", rec.Ticker)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.DateAdded)
	assert.Equal(t, []float64{100, 110, 90}, rec.Prices)
	assert.Empty(t, res.Warnings)
}

func TestReadCSV_NonNumericPricesBecomeNaN(t *testing.T) {
	input := "Tech,2024-01-01,AAA,100,110,90\nTech,2024-01-01,BBB,100,abc,nan\n"

	res, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader(input), "test.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	prices := res.Records[1].Prices
	assert.Equal(t, 100.0, prices[0])
	assert.True(t, math.IsNaN(prices[1]))
	assert.True(t, math.IsNaN(prices[2]))

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, ParseWarning{Row: 2, Column: 5, Value: "abc"}, res.Warnings[0])
	assert.Equal(t, ParseWarning{Row: 2, Column: 6, Value: "nan"}, res.Warnings[1])
}

func TestReadCSV_DateFormats(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-03-15", "3/15/2024", "03/15/2024", "2024/03/15"} {
		t.Run(raw, func(t *testing.T) {
			d, ok := parseDate(raw)
			require.True(t, ok)
			assert.True(t, want.Equal(d))
		})
	}

	res, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader("Tech,someday,AAA,1,2\nTech,,BBB,1,2\n"), "test.csv")
	require.NoError(t, err)
	assert.False(t, res.Records[0].HasDate())
	assert.False(t, res.Records[1].HasDate())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Column)
}

func TestReadCSV_InconsistentColumnCount(t *testing.T) {
	input := "Tech,2024-01-01,AAA,100,110,90\nHealth,2024-01-01,BBB,100\n"

	_, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader(input), "test.csv")
	require.Error(t, err)

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "parse", dsErr.Op)
	assert.Equal(t, "test.csv", dsErr.Source)
}

func TestReadCSV_TooFewFields(t *testing.T) {
	_, err := newTestLoader().ReadCSV(context.Background(), strings.NewReader("Tech,2024-01-01,AAA\n"), "short.csv")

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Contains(t, dsErr.Error(), "expected at least 4 fields")
}

func TestReadCSV_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader().ReadCSV(ctx, strings.NewReader("Tech,2024-01-01,AAA,1,2\n"), "test.csv")

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := newTestLoader().LoadRecords(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "open", dsErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadRecords_Idempotent(t *testing.T) {
	path := writeFile(t, "picks.csv",
		"VALUE INVESTING,,,,\nTech,2024-01-01,AAA,100,110\nHealth,2024-02-01,BBB,50,55\n")
	loader := newTestLoader()

	first, err := loader.LoadRecords(context.Background(), path)
	require.NoError(t, err)
	second, err := loader.LoadRecords(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Len(t, first.Records, 2)
}

func TestLoadRecords_Directory(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "2024-01.csv")
	newer := filepath.Join(dir, "2024-02.csv")
	require.NoError(t, os.WriteFile(older, []byte("Tech,2024-01-01,OLD,1,2\n"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("Tech,2024-01-01,NEW,1,2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	res, err := newTestLoader().LoadRecords(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, newer, res.Path)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "NEW", res.Records[0].Ticker)
}

func TestLoadRecords_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := newTestLoader().LoadRecords(context.Background(), dir)

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "discover", dsErr.Op)
	assert.ErrorIs(t, err, files.ErrNoPicksFile)
}

func TestLoadRecords_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picks.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"GROWTH INVESTING"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Tech", "2024-01-01", "AAA", 100, 110, 90}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Health", "2024-02-01", "BBB", 20, 25}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := newTestLoader().LoadRecords(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Skipped)

	assert.Equal(t, []float64{100, 110, 90}, res.Records[0].Prices)

	// short row padded to the sheet width; the missing cell is a gap
	health := res.Records[1]
	require.Len(t, health.Prices, 3)
	assert.Equal(t, 25.0, health.Prices[1])
	assert.True(t, math.IsNaN(health.Prices[2]))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{" 12.5 ", 12.5, true},
		{"$1,234.50", 1234.5, true},
		{"-3", -3, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"n/a", 0, false},
		{"Inf", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.True(t, math.IsNaN(got))
			}
		})
	}
}
