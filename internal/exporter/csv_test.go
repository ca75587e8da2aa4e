package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickchart/internal/chart"
	"pickchart/pkg/contracts/domain"
)

func testChart(t *testing.T) *chart.Chart {
	t.Helper()
	records := []domain.Record{
		{Sector: "Tech", DateAdded: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Ticker: "AAA", Prices: []float64{100, 110, 95.5}},
		{Sector: "Health", Ticker: "BBB", Prices: []float64{50, math.NaN()}},
	}
	opts := chart.DefaultOptions()
	opts.Now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return chart.Build(records, opts)
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSeriesHeaders(t *testing.T) {
	c := testChart(t)

	assert.Equal(t,
		[]string{"sector", "ticker", "added", "color", "hidden", "1", "2", "3"},
		SeriesHeaders(c))
}

func TestSeriesHeaders_ObservationDates(t *testing.T) {
	c := testChart(t)
	c.ObservationDates = []string{"2024-01-01", "2024-01-15"}

	headers := SeriesHeaders(c)
	// dates cover the first two labels, the rest fall back to day numbers
	assert.Equal(t, []string{"2024-01-01", "2024-01-15", "3"}, headers[len(seriesColumns):])
}

func TestSeriesRecords(t *testing.T) {
	c := testChart(t)

	rows := SeriesRecords(c, WriteOptions{})
	require.Len(t, rows, 2)

	tech := rows[0]
	assert.Equal(t, []string{"Tech", "AAA", "2024-01-02"}, tech[:3])
	assert.True(t, strings.HasPrefix(tech[3], "hsl"))
	assert.Equal(t, "false", tech[4])
	assert.Equal(t, []string{"0.00", "10.00", "-4.50"}, tech[5:])

	// no date, a gap and padding to the label count
	health := rows[1]
	assert.Equal(t, "", health[2])
	assert.Equal(t, []string{"0.00", "", ""}, health[5:])
}

func TestSeriesRecords_SkipHidden(t *testing.T) {
	c := testChart(t)
	c.Datasets[1].Hidden = true

	all := SeriesRecords(c, WriteOptions{})
	require.Len(t, all, 2)
	assert.Equal(t, "true", all[1][4])

	visible := SeriesRecords(c, WriteOptions{SkipHidden: true})
	require.Len(t, visible, 1)
	assert.Equal(t, "AAA", visible[0][1])
}

func TestWriteSeries(t *testing.T) {
	c := testChart(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, c, WriteOptions{}))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, SeriesHeaders(c), rows[0])
	assert.Equal(t, "AAA", rows[1][1])
}

func TestWriteSeries_BOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, testChart(t), WriteOptions{BOMPrefix: true}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	rows := readCSV(t, buf.Bytes()[len(utf8BOM):])
	assert.Equal(t, "sector", rows[0][0])
}

func TestWriteSeries_EmptyChart(t *testing.T) {
	c := chart.Build(nil, chart.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, c, WriteOptions{}))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(seriesColumns)+chart.DefaultWindow)
}

func TestWriteSeriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "series.csv")
	c := testChart(t)

	require.NoError(t, WriteSeriesFile(path, c, WriteOptions{}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, data), 3)

	// a second write replaces the file
	c.Datasets = c.Datasets[:1]
	require.NoError(t, WriteSeriesFile(path, c, WriteOptions{}, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, data), 2)
}

func TestWriteSeriesFile_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := WriteSeriesFile(filepath.Join(blocker, "series.csv"), testChart(t), WriteOptions{}, nil)
	assert.Error(t, err)
}
