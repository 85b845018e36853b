// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// QuantityType describes how a product is measured when ordered.
type QuantityType string

const (
	// QuantityUnit means the product is ordered as a whole-item count.
	QuantityUnit QuantityType = "unit"
	// QuantityKg means the product is ordered by weight in kilograms.
	QuantityKg QuantityType = "kg"
)

// ProductSnapshot is the denormalized copy of a product embedded into an
// order at submission time. It keeps historical orders stable against
// later catalog edits.
type ProductSnapshot struct {
	ProductID    string       `json:"product_id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	ImageURL     string       `json:"image_url"`
	QuantityType QuantityType `json:"quantity_type"`
}

// Product is a single catalog entry owned by the distributor.
// Stock is a pointer: nil means the product's stock is untracked,
// a non-nil value is the tracked on-hand amount and never goes negative.
type Product struct {
	ID           string       // Opaque unique identifier, generated at creation time unless supplied by an import.
	Name         string       // Display name.
	Description  string       // Optional free text.
	Price        float64      // Non-negative; per item or per kilogram depending on QuantityType.
	ImageURL     string       // Remote URL or inlined encoded image.
	Barcode      string       // Optional; no uniqueness enforced.
	QuantityType QuantityType // Defaults to QuantityUnit.
	Stock        *int         // nil = untracked.
	IsVisible    bool         // Controls catalog-browsing visibility only, not admin visibility.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snapshot freezes the fields of the product that an order needs for
// historical accuracy. Orders keep these snapshots forever; they are
// never re-resolved against the live catalog.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		ImageURL:     p.ImageURL,
		QuantityType: p.QuantityType,
	}
}
