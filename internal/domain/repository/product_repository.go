// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"milkrun/internal/domain/entity"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the standard operations for catalog persistence.
// The application layer will depend on this interface, not the concrete implementation.
type ProductRepository interface {
	// FindAll retrieves every product, visible and hidden.
	FindAll(ctx context.Context) ([]*entity.Product, error)

	// FindByID retrieves a single product by its identifier.
	FindByID(ctx context.Context, id string) (*entity.Product, error)

	// Count reports how many products exist. Used by the one-time seeding check.
	Count(ctx context.Context) (int64, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// CreateAll persists a batch of products in one call. Used by seeding.
	CreateAll(ctx context.Context, products []*entity.Product) error

	// Update rewrites an existing product record.
	Update(ctx context.Context, product *entity.Product) error

	// UpdateStock persists only the tracked stock value of a product.
	UpdateStock(ctx context.Context, id string, stock int) error

	// Delete removes a product. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// UpsertAll inserts or updates the batch keyed by id (conflict on id
	// becomes an update). Used by bulk merge.
	UpsertAll(ctx context.Context, products []*entity.Product) error
}
