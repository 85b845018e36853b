// Package model holds the GORM-specific table structs. They are mapped to
// and from the pure domain entities at the repository boundary.
package model

import "time"

// ProductModel is the GORM-specific struct for the 'products' table.
// Deletion is permanent by design, so there is no soft-delete column.
type ProductModel struct {
	ID           string  `gorm:"type:varchar(64);primary_key"`
	Name         string  `gorm:"type:varchar(255);not null"`
	Description  string  `gorm:"type:text"`
	Price        float64 `gorm:"not null;default:0"`
	ImageURL     string  `gorm:"column:image_url;type:text;not null"`
	Barcode      string  `gorm:"type:varchar(64)"`
	QuantityType string  `gorm:"type:varchar(10);not null;default:'unit'"`
	Stock        *int    // NULL means the product's stock is untracked.
	IsVisible    bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
