package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// DateLayout is the wire format for pick dates.
const DateLayout = "2006-01-02"

// Reserved sector values that mark sections of the picks table rather than data.
const (
	SectionValueInvesting  = "VALUE INVESTING"
	SectionGrowthInvesting = "GROWTH INVESTING"
)

// IsSectionHeader reports whether a sector value is a section marker.
func IsSectionHeader(sector string) bool {
	return sector == SectionValueInvesting || sector == SectionGrowthInvesting
}

// Record is one stock pick row: a sector, the date the pick was added,
// the ticker and one price per observation period. Prices[0] is the
// baseline every later price is measured against. Missing prices are NaN.
type Record struct {
	Sector    string    `json:"sector" validate:"required"`
	DateAdded time.Time `json:"date_added"`
	Ticker    string    `json:"ticker"`
	Prices    []float64 `json:"prices" validate:"min=1"`
}

// HasDate reports whether the pick carries a usable added date.
func (r Record) HasDate() bool {
	return !r.DateAdded.IsZero()
}

// MarshalJSON encodes the record positionally as
// [sector, date, ticker, price_1, ..., price_N]. Missing prices become null.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, s := range []string{r.Sector, r.dateString(), r.Ticker} {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}

	for _, p := range r.Prices {
		buf.WriteByte(',')
		if math.IsNaN(p) || math.IsInf(p, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(p, 'f', -1, 64))
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (r Record) dateString() string {
	if !r.HasDate() {
		return ""
	}
	return r.DateAdded.Format(DateLayout)
}
