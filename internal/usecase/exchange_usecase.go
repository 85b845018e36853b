package usecase

import (
	"context"
	"io"
)

// ExportFormat selects one of the three tabular writers.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

// ValidExportFormat reports whether f names a supported writer.
func ValidExportFormat(f ExportFormat) bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return true
	default:
		return false
	}
}

// ExportResult is a rendered document plus the metadata the delivery
// layer needs to serve it as a download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExchangeUsecase converts catalog and order collections to and from
// tabular external representations.
type ExchangeUsecase interface {
	// ExportProducts renders the full catalog in the requested format.
	ExportProducts(ctx context.Context, format ExportFormat) (*ExportResult, error)

	// ExportOrders renders all orders, one row per order, with denormalized
	// snapshot names and prices.
	ExportOrders(ctx context.Context, format ExportFormat) (*ExportResult, error)

	// ImportProducts parses a header-row CSV into product patches and feeds
	// them to the catalog bulk merge. Returns the number of merged rows.
	ImportProducts(ctx context.Context, r io.Reader) (int, error)
}
