package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSONIsPositional(t *testing.T) {
	rec := Record{
		Sector:    "Tech",
		DateAdded: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Ticker:    "AAA",
		Prices:    []float64{100, 110.5, math.NaN(), 90},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `["Tech","2024-01-01","AAA",100,110.5,null,90]`, string(data))
}

func TestRecord_MarshalJSONWithoutDate(t *testing.T) {
	data, err := json.Marshal([]Record{{Sector: "Health", Ticker: "BBB", Prices: []float64{1}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["Health","","BBB",1]]`, string(data))
}

func TestIsSectionHeader(t *testing.T) {
	assert.True(t, IsSectionHeader("VALUE INVESTING"))
	assert.True(t, IsSectionHeader("GROWTH INVESTING"))
	assert.False(t, IsSectionHeader("Value Investing"))
	assert.False(t, IsSectionHeader("Tech"))
}
