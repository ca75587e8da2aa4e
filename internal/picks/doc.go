// Package picks reads stock pick tables.
//
// A picks table has no header row. Every row is laid out as
//
//	sector, date added, ticker, price_1, ..., price_N
//
// Rows whose sector is empty, or is one of the section markers
// "VALUE INVESTING" / "GROWTH INVESTING", are dropped. The remaining rows are
// converted to domain.Record values in source order. Unreadable price cells
// become NaN and are reported as ParseWarning values; an unreadable or
// malformed source fails the whole load with a DataSourceError.
//
// CSV files are parsed with encoding/csv; .xlsx workbooks are read from their
// first sheet with excelize. A directory source is served from its newest
// .csv or .xlsx file, see package files.
package picks
