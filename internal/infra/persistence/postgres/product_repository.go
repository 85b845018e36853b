// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// FindAll retrieves every product, visible and hidden, oldest first so the
// catalog keeps a stable display order.
func (repo *productRepository) FindAll(ctx context.Context) ([]*entity.Product, error) {
	var productModels []*model.ProductModel

	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// FindByID retrieves a single product by its identifier.
func (repo *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// Count reports how many products exist.
func (repo *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count products")
	}

	return count, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}

	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// CreateAll persists a batch of products in one insert.
func (repo *productRepository) CreateAll(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	productModels := make([]*model.ProductModel, 0, len(products))
	for _, product := range products {
		productModels = append(productModels, fromProductDomain(product))
	}

	if err := repo.db.WithContext(ctx).Create(&productModels).Error; err != nil {
		return errors.Wrap(err, "failed to create products")
	}

	return nil
}

// Update rewrites an existing product record in full.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(productM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// UpdateStock persists only the tracked stock value of a product.
func (repo *productRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Update("stock", stock)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product stock")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Delete removes a product permanently. Absent ids succeed.
func (repo *productRepository) Delete(ctx context.Context, id string) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// UpsertAll inserts or updates the batch keyed by id. A conflicting id
// becomes an update of the mutable columns; created_at stays untouched.
func (repo *productRepository) UpsertAll(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	productModels := make([]*model.ProductModel, 0, len(products))
	for _, product := range products {
		productModels = append(productModels, fromProductDomain(product))
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "price", "image_url", "barcode",
				"quantity_type", "stock", "is_visible", "updated_at",
			}),
		}).
		Create(&productModels).Error; err != nil {
		return errors.Wrap(err, "failed to upsert products")
	}

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		ImageURL:     data.ImageURL,
		Barcode:      data.Barcode,
		QuantityType: entity.QuantityType(data.QuantityType),
		Stock:        data.Stock,
		IsVisible:    data.IsVisible,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		ImageURL:     data.ImageURL,
		Barcode:      data.Barcode,
		QuantityType: string(data.QuantityType),
		Stock:        data.Stock,
		IsVisible:    data.IsVisible,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
