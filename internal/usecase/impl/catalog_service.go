// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/localstore"
	"milkrun/internal/usecase"

	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	local       *localstore.Store
	logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	local *localstore.Store,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: productRepo,
		txManager:   txManager,
		local:       local,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts retrieves all products, visible and hidden.
func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		// The local mirror is the cache of last resort when the backing store
		// is unreachable.
		if cached, cacheErr := srv.local.CachedProducts(); cacheErr == nil && cached != nil {
			srv.log(ctx).Warn("Serving catalog from local mirror", slog.Int("count", len(cached)))

			return cached, nil
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to list products")
	}

	return products, nil
}

// GetProduct retrieves a single product or ErrProductNotFound.
func (srv *catalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to load product")
	}

	return product, nil
}

// AddProduct assigns a fresh id, defaults visibility, persists and returns
// the stored record. The catalog is left unchanged when the write fails.
func (srv *catalogService) AddProduct(ctx context.Context, input usecase.ProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Adding product", slog.String("name", input.Name))

	quantityType := input.QuantityType
	if quantityType == "" {
		quantityType = entity.QuantityUnit
	}
	visible := true
	if input.IsVisible != nil {
		visible = *input.IsVisible
	}

	product := &entity.Product{
		ID:           entity.NewID(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		Barcode:      input.Barcode,
		QuantityType: quantityType,
		Stock:        input.Stock,
		IsVisible:    visible,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to add product", slog.Any("error", err), slog.String("name", input.Name))

		return nil, domainerrors.NewPersistenceError(err, "failed to add product")
	}

	srv.refreshMirror(ctx)

	return product, nil
}

// UpdateProduct merges the supplied fields onto the existing record inside a
// single transaction. An absent id is a hard ErrProductNotFound.
func (srv *catalogService) UpdateProduct(ctx context.Context, id string, patch usecase.ProductPatch) (*entity.Product, error) {
	srv.log(ctx).Info("Updating product", slog.String("product_id", id))

	var updated *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to load product for update")
		}

		patch.ApplyTo(product)

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to persist product update")
		}

		updated = product

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("error", err), slog.String("product_id", id))

		if errors.Is(err, domainerrors.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to update product")
	}

	srv.refreshMirror(ctx)

	return updated, nil
}

// DeleteProduct removes the record permanently. Deleting an absent id is
// not an error and leaves the catalog unchanged.
func (srv *catalogService) DeleteProduct(ctx context.Context, id string) error {
	srv.log(ctx).Info("Deleting product", slog.String("product_id", id))

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("error", err), slog.String("product_id", id))

		return domainerrors.NewPersistenceError(err, "failed to delete product")
	}

	srv.refreshMirror(ctx)

	return nil
}

// BulkMergeProducts upserts the rows in input order: a row whose id matches
// an existing product becomes an update, anything else becomes an insert
// with the documented defaults. Later rows with the same id overwrite
// earlier ones within the same call. The catalog is re-read afterwards so
// local state matches whatever the backing store actually accepted.
func (srv *catalogService) BulkMergeProducts(ctx context.Context, patches []usecase.ProductPatch) error {
	srv.log(ctx).Info("Bulk merging products", slog.Int("rows", len(patches)))

	existing, err := srv.productRepo.FindAll(ctx)
	if err != nil {
		return domainerrors.NewPersistenceError(err, "failed to load catalog for merge")
	}

	byID := make(map[string]*entity.Product, len(existing))
	for _, product := range existing {
		byID[product.ID] = product
	}

	// merged keeps input order; duplicate ids collapse onto one entry.
	var merged []*entity.Product
	seen := make(map[string]bool)

	for _, patch := range patches {
		if patch.ID != "" {
			if product, ok := byID[patch.ID]; ok {
				patch.ApplyTo(product)
				if !seen[patch.ID] {
					seen[patch.ID] = true
					merged = append(merged, product)
				}

				continue
			}
		}

		product := patch.Defaulted()
		byID[product.ID] = product
		seen[product.ID] = true
		merged = append(merged, product)
	}

	upsertErr := srv.productRepo.UpsertAll(ctx, merged)
	if upsertErr != nil {
		// Partial upsert failures are tolerated: the reload below decides
		// what actually made it into the catalog.
		srv.log(ctx).Error("Bulk merge upsert failed", slog.Any("error", upsertErr))
	}

	srv.refreshMirror(ctx)

	if upsertErr != nil {
		return domainerrors.NewPersistenceError(upsertErr, "bulk merge failed")
	}
	srv.log(ctx).Info("Bulk merge complete", slog.Int("merged", len(merged)))

	return nil
}

// EnsureSeed inserts the fixed default catalog when the backing store is
// empty. Runs once at startup; never repeated once any product exists.
func (srv *catalogService) EnsureSeed(ctx context.Context) error {
	count, err := srv.productRepo.Count(ctx)
	if err != nil {
		return domainerrors.NewPersistenceError(err, "failed to check catalog size")
	}
	if count > 0 {
		return nil
	}

	srv.log(ctx).Info("Seeding default catalog")

	if err := srv.productRepo.CreateAll(ctx, DefaultCatalog()); err != nil {
		return domainerrors.NewPersistenceError(err, "failed to seed catalog")
	}

	srv.refreshMirror(ctx)

	return nil
}

// refreshMirror re-reads the catalog and replaces the device-local mirror
// wholesale. Mirror failures are logged, never surfaced: the backing store
// already holds the truth.
func (srv *catalogService) refreshMirror(ctx context.Context) {
	products, err := srv.productRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Warn("Failed to re-read catalog for local mirror", slog.Any("error", err))

		return
	}

	if err := srv.local.CacheProducts(products); err != nil {
		srv.log(ctx).Warn("Failed to write catalog mirror", slog.Any("error", err))
	}
}
