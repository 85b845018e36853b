package model

import (
	"time"

	"gorm.io/datatypes"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
// Items are stored as a JSONB document of product snapshots; they are
// frozen at submission time and never rewritten.
type OrderModel struct {
	ID          string         `gorm:"type:varchar(64);primary_key"`
	StoreName   string         `gorm:"type:varchar(255);not null"`
	UserEmail   string         `gorm:"type:varchar(255);not null;index"`
	Items       datatypes.JSON `gorm:"not null"`
	OrderDate   time.Time      `gorm:"not null;index"`
	Status      string         `gorm:"type:varchar(20);not null;index"`
	TotalAmount float64        `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
