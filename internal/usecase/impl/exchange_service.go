package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"milkrun/config"
	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/infra/tabular"
	"milkrun/internal/usecase"

	"github.com/pkg/errors"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"

	exportDateLayout = "2006-01-02"
	orderDateLayout  = "2006-01-02 15:04"
)

// exchangeService implements the ExchangeUsecase interface. Exports go
// through the catalog and order usecases so they see exactly what the rest
// of the application sees, mirror fallback included.
type exchangeService struct {
	catalog     usecase.CatalogUsecase
	orders      usecase.OrderUsecase
	rightToLeft bool
	logger      *slog.Logger
}

// NewExchangeService is the constructor for exchangeService.
func NewExchangeService(
	catalog usecase.CatalogUsecase,
	orders usecase.OrderUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ExchangeUsecase {
	return &exchangeService{
		catalog:     catalog,
		orders:      orders,
		rightToLeft: cfg.Report.RightToLeft,
		logger:      logger,
	}
}

func (srv *exchangeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ExportProducts renders the full catalog, hidden products included, in the
// requested format.
func (srv *exchangeService) ExportProducts(ctx context.Context, format usecase.ExportFormat) (*usecase.ExportResult, error) {
	if !usecase.ValidExportFormat(format) {
		return nil, domainerrors.ErrUnsupportedFormat.WithDetails(string(format))
	}

	products, err := srv.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	table := &tabular.Table{
		Title:       "Product Catalog",
		Columns:     []string{"id", "name", "description", "price", "imageUrl", "barcode", "quantityType", "stock", "isVisible"},
		RightToLeft: srv.rightToLeft,
	}
	for _, product := range products {
		stock := ""
		if product.Stock != nil {
			stock = strconv.Itoa(*product.Stock)
		}
		table.Rows = append(table.Rows, []string{
			product.ID,
			product.Name,
			product.Description,
			formatPrice(product.Price),
			product.ImageURL,
			product.Barcode,
			string(product.QuantityType),
			stock,
			strconv.FormatBool(product.IsVisible),
		})
	}

	srv.log(ctx).Info("Exporting products",
		slog.String("format", string(format)),
		slog.Int("rows", len(table.Rows)))

	return srv.render(table, format, "products")
}

// ExportOrders renders all orders, one row per order. Item names and prices
// come from the frozen snapshots, so the report shows what was actually
// ordered regardless of later catalog edits.
func (srv *exchangeService) ExportOrders(ctx context.Context, format usecase.ExportFormat) (*usecase.ExportResult, error) {
	if !usecase.ValidExportFormat(format) {
		return nil, domainerrors.ErrUnsupportedFormat.WithDetails(string(format))
	}

	orders, err := srv.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	table := &tabular.Table{
		Title:       "Orders",
		Columns:     []string{"id", "storeName", "userEmail", "orderDate", "status", "items", "totalAmount"},
		RightToLeft: srv.rightToLeft,
	}
	for _, order := range orders {
		table.Rows = append(table.Rows, []string{
			order.ID,
			order.StoreName,
			order.UserEmail,
			order.OrderDate.Format(orderDateLayout),
			string(order.Status),
			formatOrderItems(order.Items),
			formatPrice(order.TotalAmount),
		})
	}

	srv.log(ctx).Info("Exporting orders",
		slog.String("format", string(format)),
		slog.Int("rows", len(table.Rows)))

	return srv.render(table, format, "orders")
}

// ImportProducts parses a header-row CSV into product patches and feeds
// them to the catalog bulk merge. Rows that carry nothing usable are
// dropped; a file with no usable rows is rejected before any write.
func (srv *exchangeService) ImportProducts(ctx context.Context, r io.Reader) (int, error) {
	records, err := tabular.ReadCSV(r)
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	var patches []usecase.ProductPatch
	for _, record := range records {
		patch := patchFromRecord(record)
		if patch.IsEmpty() {
			continue
		}
		patches = append(patches, patch)
	}

	if len(patches) == 0 {
		return 0, domainerrors.ErrImportEmpty
	}

	srv.log(ctx).Info("Importing products", slog.Int("rows", len(patches)))

	if err := srv.catalog.BulkMergeProducts(ctx, patches); err != nil {
		return 0, err
	}

	return len(patches), nil
}

func (srv *exchangeService) render(table *tabular.Table, format usecase.ExportFormat, base string) (*usecase.ExportResult, error) {
	var (
		content     []byte
		contentType string
		err         error
	)

	switch format {
	case usecase.FormatCSV:
		content, err = tabular.WriteCSV(table)
		contentType = contentTypeCSV
	case usecase.FormatXLSX:
		content, err = tabular.WriteXLSX(table)
		contentType = contentTypeXLSX
	case usecase.FormatPDF:
		content, err = tabular.WritePDF(table)
		contentType = contentTypePDF
	default:
		return nil, domainerrors.ErrUnsupportedFormat.WithDetails(string(format))
	}

	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrInternalError.WithDetails(err.Error()), "failed to render %s export", format)
	}

	return &usecase.ExportResult{
		Content:     content,
		ContentType: contentType,
		Filename:    fmt.Sprintf("%s_%s.%s", base, time.Now().Format(exportDateLayout), format),
	}, nil
}

// patchFromRecord coerces one CSV record into a typed patch. Headers are
// matched case- and punctuation-insensitively, so "Image URL", "image_url"
// and "imageUrl" all land on the same field. Unparseable prices and stocks
// count as absent rather than failing the whole file; quantityType and
// isVisible cells always normalize to a value, empty cells included.
func patchFromRecord(record map[string]string) usecase.ProductPatch {
	var patch usecase.ProductPatch

	if blankRecord(record) {
		return patch
	}

	for key, raw := range record {
		value := strings.TrimSpace(raw)

		switch normalizeHeader(key) {
		case "id":
			patch.ID = value
		case "name":
			if value != "" {
				patch.Name = &value
			}
		case "description":
			if value != "" {
				patch.Description = &value
			}
		case "price":
			if price, err := strconv.ParseFloat(value, 64); err == nil && price >= 0 {
				patch.Price = &price
			}
		case "imageurl", "image":
			if value != "" {
				patch.ImageURL = &value
			}
		case "barcode":
			if value != "" {
				patch.Barcode = &value
			}
		case "quantitytype":
			quantityType := parseQuantityType(value)
			patch.QuantityType = &quantityType
		case "stock":
			if stock, err := strconv.Atoi(value); err == nil && stock >= 0 {
				patch.Stock = &stock
			}
		case "isvisible", "visible":
			visible := parseVisible(value)
			patch.IsVisible = &visible
		}
	}

	return patch
}

func normalizeHeader(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// blankRecord reports whether every cell of a record is empty. Blank lines
// never become patches.
func blankRecord(record map[string]string) bool {
	for _, raw := range record {
		if strings.TrimSpace(raw) != "" {
			return false
		}
	}

	return true
}

// parseQuantityType maps kg on an exact case-insensitive match; everything
// else, an empty cell included, is sold by the unit.
func parseQuantityType(value string) entity.QuantityType {
	if strings.EqualFold(value, string(entity.QuantityKg)) {
		return entity.QuantityKg
	}

	return entity.QuantityUnit
}

// parseVisible maps the explicit negatives to hidden; anything else, an
// empty cell included, is visible.
func parseVisible(value string) bool {
	switch strings.ToLower(value) {
	case "false", "0":
		return false
	default:
		return true
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// formatOrderItems flattens the snapshot items into one cell, e.g.
// "Whole Milk 1L x2 @1.49; Aged Gouda x0.5 @18.90".
func formatOrderItems(items []entity.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%s @%s",
			item.Product.Name,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			formatPrice(item.Product.Price)))
	}

	return strings.Join(parts, "; ")
}
