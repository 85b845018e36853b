package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// OrderItemInput names a catalog product and the requested amount.
// The snapshot embedded into the order is resolved at submission time.
type OrderItemInput struct {
	ProductID string
	Quantity  float64
}

// OrderUsecase owns the set of orders and the delivery-time stock
// reconciliation side effect.
type OrderUsecase interface {
	// ListOrders returns every order, newest first. Administrative view.
	ListOrders(ctx context.Context) ([]*entity.Order, error)

	// ListOrdersByEmail returns a single store's order history, newest first.
	ListOrdersByEmail(ctx context.Context, userEmail string) ([]*entity.Order, error)

	// SubmitOrder assigns id, timestamp and the Pending status, freezes
	// product snapshots, computes the total and persists. Empty items are
	// rejected with ErrEmptyOrder before anything is written.
	SubmitOrder(ctx context.Context, storeName, userEmail string, items []OrderItemInput) (*entity.Order, error)

	// SetOrderStatus persists a status transition. An absent order is a hard
	// ErrOrderNotFound with no side effects. A transition into Delivered from
	// any non-Delivered status triggers stock reconciliation as an inseparable
	// follow-up; reconciliation failures are logged, never rolled back.
	SetOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error)

	// HasNewPendingOrders reports whether any Pending order arrived after the
	// administrator last viewed the dashboard. Never-viewed counts everything.
	HasNewPendingOrders(ctx context.Context) (bool, error)

	// MarkDashboardViewed records the current time as the last dashboard view,
	// clearing the notification flag.
	MarkDashboardViewed(ctx context.Context) error
}
