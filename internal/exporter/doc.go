// Package exporter writes chart series as CSV for spreadsheets.
//
// Each row is one series: sector, ticker, date added, sector color and the
// hidden flag, followed by one percent-change cell per chart label. Gaps are
// empty cells and values carry two decimals.
//
//	err := exporter.WriteSeriesFile("out/series.csv", c, exporter.WriteOptions{BOMPrefix: true}, logger)
package exporter
