// Package tabular holds the single row-and-column representation shared by
// every export writer, plus the CSV reader used by imports. Writers only
// see strings; all domain formatting happens before a Table is built.
package tabular

// Table is the logical (rows, columns) shape fed to all three writers.
// RightToLeft affects only cell text alignment in the printable report,
// never the data values themselves.
type Table struct {
	Title       string
	Columns     []string
	Rows        [][]string
	RightToLeft bool
}
