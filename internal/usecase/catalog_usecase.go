// Package usecase defines the application-facing interfaces and their
// input types. Delivery code depends on these interfaces, never on the
// implementations in usecase/impl.
package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// Field defaults applied at the bulk-merge boundary for rows that leave
// an attribute unset.
const (
	DefaultProductName     = "Unnamed Product"
	DefaultProductImageURL = "https://placehold.co/300x300?text=Product"
)

// ProductInput carries the attributes for a single-add through the
// administrative form. The boundary enforces a non-empty name; the store
// itself does not.
type ProductInput struct {
	Name         string
	Description  string
	Price        float64
	ImageURL     string
	Barcode      string
	QuantityType entity.QuantityType
	Stock        *int
	IsVisible    *bool // nil defaults to visible
}

// ProductPatch is a typed partial product: one optional field per
// attribute. It serves both targeted updates and bulk-merge rows, replacing
// ad hoc presence checks with a single defaulting step at the merge boundary.
type ProductPatch struct {
	ID           string // empty means "no identifier supplied"
	Name         *string
	Description  *string
	Price        *float64
	ImageURL     *string
	Barcode      *string
	QuantityType *entity.QuantityType
	Stock        *int
	IsVisible    *bool
}

// IsEmpty reports whether every field of the patch is absent.
// Import discards such rows before they reach the merge step.
func (p ProductPatch) IsEmpty() bool {
	return p.ID == "" &&
		p.Name == nil &&
		p.Description == nil &&
		p.Price == nil &&
		p.ImageURL == nil &&
		p.Barcode == nil &&
		p.QuantityType == nil &&
		p.Stock == nil &&
		p.IsVisible == nil
}

// ApplyTo merges the present fields of the patch onto an existing product.
// Absent fields leave the product untouched.
func (p ProductPatch) ApplyTo(product *entity.Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.Barcode != nil {
		product.Barcode = *p.Barcode
	}
	if p.QuantityType != nil {
		product.QuantityType = *p.QuantityType
	}
	if p.Stock != nil {
		product.Stock = p.Stock
	}
	if p.IsVisible != nil {
		product.IsVisible = *p.IsVisible
	}
}

// Defaulted materializes a brand-new product from the patch, filling every
// absent field with the documented merge defaults. The id is freshly
// generated when the row did not supply one.
func (p ProductPatch) Defaulted() *entity.Product {
	product := &entity.Product{
		ID:           p.ID,
		Name:         DefaultProductName,
		ImageURL:     DefaultProductImageURL,
		QuantityType: entity.QuantityUnit,
		IsVisible:    true,
	}
	if product.ID == "" {
		product.ID = entity.NewID()
	}
	zero := 0
	product.Stock = &zero

	p.ApplyTo(product)

	return product
}

// CatalogUsecase owns the authoritative set of products.
type CatalogUsecase interface {
	// ListProducts returns all products, unfiltered. Customer-facing callers
	// filter by IsVisible themselves.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// GetProduct returns a single product or ErrProductNotFound.
	GetProduct(ctx context.Context, id string) (*entity.Product, error)

	// AddProduct assigns a fresh id, defaults visibility to true when unset,
	// persists and returns the stored record. A rejected write leaves the
	// catalog unchanged.
	AddProduct(ctx context.Context, input ProductInput) (*entity.Product, error)

	// UpdateProduct merges the supplied fields onto the existing record.
	// An absent id is a hard ErrProductNotFound.
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)

	// DeleteProduct removes the record. Idempotent: absent ids succeed.
	DeleteProduct(ctx context.Context, id string) error

	// BulkMergeProducts upserts the rows in input order: a known id updates,
	// anything else inserts with defaults. Afterwards the catalog is re-read
	// from the backing store so local state matches persisted state.
	BulkMergeProducts(ctx context.Context, patches []ProductPatch) error

	// EnsureSeed inserts the fixed default catalog when the backing store
	// reports zero products. One-time; never repeated once rows exist.
	EnsureSeed(ctx context.Context) error
}
