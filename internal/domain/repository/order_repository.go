package repository

import (
	"context"
	"errors"
	"time"

	"milkrun/internal/domain/entity"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindAll retrieves every order, newest first.
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// FindByEmail retrieves one store's order history, newest first.
	FindByEmail(ctx context.Context, userEmail string) ([]*entity.Order, error)

	// FindByID retrieves a single order by its identifier.
	FindByID(ctx context.Context, id string) (*entity.Order, error)

	// Create persists a new order.
	Create(ctx context.Context, order *entity.Order) error

	// UpdateStatus persists a status transition for an existing order.
	// Returns ErrOrderNotFound when the id does not exist.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error

	// CountPendingSince counts orders still Pending whose order date is
	// strictly after the given instant. The zero time counts all pending orders.
	CountPendingSince(ctx context.Context, since time.Time) (int64, error)
}
