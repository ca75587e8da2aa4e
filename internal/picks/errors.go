package picks

import (
	"fmt"
)

// DataSourceError reports that a picks source could not be read or parsed.
// It is fatal to the load that produced it.
type DataSourceError struct {
	Source string
	Op     string
	Err    error
}

// Error implements the error interface
func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %q: %s: %v", e.Source, e.Op, e.Err)
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func sourceError(source, op string, err error) error {
	return &DataSourceError{Source: source, Op: op, Err: err}
}

// ParseWarning records a cell that could not be read as a number. The
// affected price is stored as NaN; the load itself continues.
type ParseWarning struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("row %d column %d: %q is not a number", w.Row, w.Column, w.Value)
}
