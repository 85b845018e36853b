// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"milkrun/internal/domain/entity"
	"milkrun/internal/usecase"
)

// ProductPayload is the wire shape of a catalog product.
type ProductPayload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Barcode      string  `json:"barcode,omitempty"`
	QuantityType string  `json:"quantityType"`
	Stock        *int    `json:"stock"`
	IsVisible    bool    `json:"isVisible"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

func toProductPayload(product *entity.Product) ProductPayload {
	return ProductPayload{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		ImageURL:     product.ImageURL,
		Barcode:      product.Barcode,
		QuantityType: string(product.QuantityType),
		Stock:        product.Stock,
		IsVisible:    product.IsVisible,
		CreatedAt:    formatTime(product.CreatedAt),
		UpdatedAt:    formatTime(product.UpdatedAt),
	}
}

func toProductPayloads(products []*entity.Product) []ProductPayload {
	payloads := make([]ProductPayload, 0, len(products))
	for _, product := range products {
		payloads = append(payloads, toProductPayload(product))
	}

	return payloads
}

// OrderItemPayload is one frozen line of an order.
type OrderItemPayload struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	QuantityType string  `json:"quantityType"`
	Quantity     float64 `json:"quantity"`
}

// OrderPayload is the wire shape of an order.
type OrderPayload struct {
	ID          string             `json:"id"`
	StoreName   string             `json:"storeName"`
	UserEmail   string             `json:"userEmail"`
	Items       []OrderItemPayload `json:"items"`
	OrderDate   string             `json:"orderDate"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"totalAmount"`
}

func toOrderPayload(order *entity.Order) OrderPayload {
	items := make([]OrderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemPayload{
			ProductID:    item.Product.ProductID,
			Name:         item.Product.Name,
			Price:        item.Product.Price,
			ImageURL:     item.Product.ImageURL,
			QuantityType: string(item.Product.QuantityType),
			Quantity:     item.Quantity,
		})
	}

	return OrderPayload{
		ID:          order.ID,
		StoreName:   order.StoreName,
		UserEmail:   order.UserEmail,
		Items:       items,
		OrderDate:   order.OrderDate.Format(time.RFC3339),
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	}
}

func toOrderPayloads(orders []*entity.Order) []OrderPayload {
	payloads := make([]OrderPayload, 0, len(orders))
	for _, order := range orders {
		payloads = append(payloads, toOrderPayload(order))
	}

	return payloads
}

// IdentityPayload reports who the caller is logged in as.
type IdentityPayload struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	StoreName string `json:"storeName"`
	IsAdmin   bool   `json:"isAdmin"`
}

func toIdentityPayload(identity *usecase.Identity) IdentityPayload {
	return IdentityPayload{
		Token:     identity.Session.ID,
		Email:     identity.Session.Email,
		StoreName: identity.Session.StoreName,
		IsAdmin:   identity.IsAdmin,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}
