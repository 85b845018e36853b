package entity

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending       OrderStatus = "Pending"
	StatusInPreparation OrderStatus = "In Preparation"
	StatusShipped       OrderStatus = "Shipped"
	StatusDelivered     OrderStatus = "Delivered"
	StatusCancelled     OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known lifecycle states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusInPreparation, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem pairs a product snapshot with the requested amount.
// Quantity is a whole count for unit products and a fractional weight for kg products.
type OrderItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity float64         `json:"quantity"`
}

// Order is a store's submitted purchase. Identity fields, items and the
// order date are fixed at creation; only Status changes afterwards.
type Order struct {
	ID          string
	StoreName   string
	UserEmail   string
	Items       []OrderItem
	OrderDate   time.Time
	Status      OrderStatus
	TotalAmount float64
}

// ComputeTotal sums price times quantity over all items.
func ComputeTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Product.Price * item.Quantity
	}

	return total
}
