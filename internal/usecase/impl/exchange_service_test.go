package impl

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"milkrun/config"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/infra/tabular"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog is a function-backed CatalogUsecase for exchange tests.
type stubCatalog struct {
	usecase.CatalogUsecase

	listFn  func(ctx context.Context) ([]*entity.Product, error)
	mergeFn func(ctx context.Context, patches []usecase.ProductPatch) error
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return s.listFn(ctx)
}

func (s *stubCatalog) BulkMergeProducts(ctx context.Context, patches []usecase.ProductPatch) error {
	return s.mergeFn(ctx, patches)
}

type stubOrders struct {
	usecase.OrderUsecase

	listFn func(ctx context.Context) ([]*entity.Order, error)
}

func (s *stubOrders) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	return s.listFn(ctx)
}

func newExchangeService(catalog usecase.CatalogUsecase, orders usecase.OrderUsecase) usecase.ExchangeUsecase {
	return NewExchangeService(catalog, orders, &config.Config{}, slog.Default())
}

func TestExportProducts_RejectsUnknownFormat(t *testing.T) {
	svc := newExchangeService(&stubCatalog{}, &stubOrders{})

	_, err := svc.ExportProducts(context.Background(), usecase.ExportFormat("docx"))

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNSUPPORTED_FORMAT", appErr.ErrorCode())
}

func TestExportProducts_CSVCarriesEveryAttribute(t *testing.T) {
	stock := 12
	catalog := &stubCatalog{
		listFn: func(context.Context) ([]*entity.Product, error) {
			return []*entity.Product{{
				ID:           "p1",
				Name:         "Whole Milk 1L",
				Description:  "Fresh whole milk",
				Price:        1.49,
				ImageURL:     "https://example.com/milk.png",
				Barcode:      "4006381333931",
				QuantityType: entity.QuantityUnit,
				Stock:        &stock,
				IsVisible:    true,
			}}, nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	result, err := svc.ExportProducts(context.Background(), usecase.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "products_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	records, err := tabular.ReadCSV(strings.NewReader(string(result.Content)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Whole Milk 1L", records[0]["name"])
	assert.Equal(t, "1.49", records[0]["price"])
	assert.Equal(t, "12", records[0]["stock"])
	assert.Equal(t, "true", records[0]["isVisible"])
}

func TestExportProducts_UntrackedStockExportsEmpty(t *testing.T) {
	catalog := &stubCatalog{
		listFn: func(context.Context) ([]*entity.Product, error) {
			return []*entity.Product{{ID: "p1", Name: "Bulk Cheese", QuantityType: entity.QuantityKg}}, nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	result, err := svc.ExportProducts(context.Background(), usecase.FormatCSV)

	require.NoError(t, err)
	records, err := tabular.ReadCSV(strings.NewReader(string(result.Content)))
	require.NoError(t, err)
	assert.Equal(t, "", records[0]["stock"])
}

func TestExportOrders_OneRowPerOrderWithSnapshotNames(t *testing.T) {
	orders := &stubOrders{
		listFn: func(context.Context) ([]*entity.Order, error) {
			return []*entity.Order{{
				ID:        "o1",
				StoreName: "Corner Shop",
				UserEmail: "shop@example.com",
				Status:    entity.StatusPending,
				Items: []entity.OrderItem{{
					Product:  entity.ProductSnapshot{ProductID: "p1", Name: "Whole Milk 1L", Price: 1.49},
					Quantity: 2,
				}},
				TotalAmount: 2.98,
			}}, nil
		},
	}

	svc := newExchangeService(&stubCatalog{}, orders)

	result, err := svc.ExportOrders(context.Background(), usecase.FormatCSV)

	require.NoError(t, err)
	records, err := tabular.ReadCSV(strings.NewReader(string(result.Content)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Corner Shop", records[0]["storeName"])
	assert.Contains(t, records[0]["items"], "Whole Milk 1L x2 @1.49")
	assert.Equal(t, "2.98", records[0]["totalAmount"])
}

func TestImportProducts_CoercesValuesAndSkipsEmptyRows(t *testing.T) {
	csvFile := strings.Join([]string{
		"id,name,price,stock,quantityType,isVisible",
		"p1,Whole Milk 1L,1.59,20,unit,true",
		",Fresh Ricotta,not-a-price,-3,KG,",
		",,,,,",
	}, "\n")

	var merged []usecase.ProductPatch
	catalog := &stubCatalog{
		mergeFn: func(_ context.Context, patches []usecase.ProductPatch) error {
			merged = patches

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	count, err := svc.ImportProducts(context.Background(), strings.NewReader(csvFile))

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, merged, 2)

	first := merged[0]
	assert.Equal(t, "p1", first.ID)
	require.NotNil(t, first.Price)
	assert.Equal(t, 1.59, *first.Price)
	require.NotNil(t, first.Stock)
	assert.Equal(t, 20, *first.Stock)
	require.NotNil(t, first.IsVisible)
	assert.True(t, *first.IsVisible)

	second := merged[1]
	assert.Empty(t, second.ID)
	require.NotNil(t, second.Name)
	assert.Equal(t, "Fresh Ricotta", *second.Name)
	// Unparseable price and negative stock count as absent.
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Stock)
	// Quantity type matching is case-insensitive.
	require.NotNil(t, second.QuantityType)
	assert.Equal(t, entity.QuantityKg, *second.QuantityType)
	// Empty visibility normalizes to visible.
	require.NotNil(t, second.IsVisible)
	assert.True(t, *second.IsVisible)
}

func TestImportProducts_EmptyVisibilityCellNormalizesToVisible(t *testing.T) {
	csvFile := "id,name,isVisible\np1,Whole Milk 1L,\n"

	var merged []usecase.ProductPatch
	catalog := &stubCatalog{
		mergeFn: func(_ context.Context, patches []usecase.ProductPatch) error {
			merged = patches

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	_, err := svc.ImportProducts(context.Background(), strings.NewReader(csvFile))

	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].IsVisible)
	assert.True(t, *merged[0].IsVisible)
}

func TestImportProducts_OnlyExplicitNegativesHide(t *testing.T) {
	csvFile := strings.Join([]string{
		"id,isVisible",
		"p1,false",
		"p2,0",
		"p3,no",
		"p4,maybe",
	}, "\n")

	var merged []usecase.ProductPatch
	catalog := &stubCatalog{
		mergeFn: func(_ context.Context, patches []usecase.ProductPatch) error {
			merged = patches

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	_, err := svc.ImportProducts(context.Background(), strings.NewReader(csvFile))

	require.NoError(t, err)
	require.Len(t, merged, 4)
	assert.False(t, *merged[0].IsVisible)
	assert.False(t, *merged[1].IsVisible)
	assert.True(t, *merged[2].IsVisible)
	assert.True(t, *merged[3].IsVisible)
}

func TestImportProducts_UnrecognizedQuantityTypeBecomesUnit(t *testing.T) {
	csvFile := "id,quantityType\np1,litre\np2,\n"

	var merged []usecase.ProductPatch
	catalog := &stubCatalog{
		mergeFn: func(_ context.Context, patches []usecase.ProductPatch) error {
			merged = patches

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	_, err := svc.ImportProducts(context.Background(), strings.NewReader(csvFile))

	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.NotNil(t, merged[0].QuantityType)
	assert.Equal(t, entity.QuantityUnit, *merged[0].QuantityType)
	require.NotNil(t, merged[1].QuantityType)
	assert.Equal(t, entity.QuantityUnit, *merged[1].QuantityType)
}

func TestImportProducts_HeaderAliasesMatch(t *testing.T) {
	csvFile := "ID,Name,Image URL\n,, \n,x,https://example.com/p.png\n"

	var merged []usecase.ProductPatch
	catalog := &stubCatalog{
		mergeFn: func(_ context.Context, patches []usecase.ProductPatch) error {
			merged = patches

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	_, err := svc.ImportProducts(context.Background(), strings.NewReader(csvFile))

	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].ImageURL)
	assert.Equal(t, "https://example.com/p.png", *merged[0].ImageURL)
}

func TestImportProducts_EmptyFileIsRejected(t *testing.T) {
	mergeCalled := false
	catalog := &stubCatalog{
		mergeFn: func(context.Context, []usecase.ProductPatch) error {
			mergeCalled = true

			return nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	_, err := svc.ImportProducts(context.Background(), strings.NewReader("id,name\n"))

	assert.ErrorIs(t, err, domainerrors.ErrImportEmpty)
	assert.False(t, mergeCalled)
}

func TestExportProducts_XLSXAndPDFRender(t *testing.T) {
	catalog := &stubCatalog{
		listFn: func(context.Context) ([]*entity.Product, error) {
			return []*entity.Product{{ID: "p1", Name: "Whole Milk 1L", Price: 1.49}}, nil
		},
	}

	svc := newExchangeService(catalog, &stubOrders{})

	xlsx, err := svc.ExportProducts(context.Background(), usecase.FormatXLSX)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx.Content)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx.ContentType)

	pdf, err := svc.ExportProducts(context.Background(), usecase.FormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf.Content)
	assert.Equal(t, "application/pdf", pdf.ContentType)
}
