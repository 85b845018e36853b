package impl

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/localstore"
	"milkrun/internal/usecase"

	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	local       *localstore.Store
	logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	local *localstore.Store,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		local:       local,
		logger:      logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListOrders returns every order, newest first.
func (srv *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("error", err))

		return nil, domainerrors.NewPersistenceError(err, "failed to list orders")
	}

	return orders, nil
}

// ListOrdersByEmail returns one store's order history, newest first. The
// result is mirrored locally and served from the mirror when the backing
// store is unreachable.
func (srv *orderService) ListOrdersByEmail(ctx context.Context, userEmail string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders for store", slog.Any("error", err), slog.String("user_email", userEmail))

		if cached, cacheErr := srv.local.CachedOrders(); cacheErr == nil && cached != nil {
			srv.log(ctx).Warn("Serving order history from local mirror", slog.Int("count", len(cached)))

			return cached, nil
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to list orders")
	}

	if cacheErr := srv.local.CacheOrders(orders); cacheErr != nil {
		srv.log(ctx).Warn("Failed to write order mirror", slog.Any("error", cacheErr))
	}

	return orders, nil
}

// SubmitOrder freezes a product snapshot into every item, computes the
// total and persists the order with the Pending status. The snapshots are
// never re-resolved: later catalog edits leave submitted orders untouched.
func (srv *orderService) SubmitOrder(ctx context.Context, storeName, userEmail string, items []usecase.OrderItemInput) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}

	srv.log(ctx).Info("Submitting order",
		slog.String("store_name", storeName),
		slog.String("user_email", userEmail),
		slog.Int("items", len(items)))

	orderItems := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be positive")
		}

		product, err := srv.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, domainerrors.ErrProductNotFound.WithDetails(item.ProductID)
			}

			return nil, domainerrors.NewPersistenceError(err, "failed to resolve order item")
		}

		orderItems = append(orderItems, entity.OrderItem{
			Product:  product.Snapshot(),
			Quantity: item.Quantity,
		})
	}

	order := &entity.Order{
		ID:          entity.NewID(),
		StoreName:   storeName,
		UserEmail:   userEmail,
		Items:       orderItems,
		OrderDate:   time.Now(),
		Status:      entity.StatusPending,
		TotalAmount: entity.ComputeTotal(orderItems),
	}

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		srv.log(ctx).Error("Failed to submit order", slog.Any("error", err))

		return nil, domainerrors.NewPersistenceError(err, "failed to submit order")
	}

	srv.refreshOrderMirror(ctx, userEmail)

	return order, nil
}

// refreshOrderMirror re-reads the store's history and replaces the local
// order mirror. Failures are logged, never surfaced.
func (srv *orderService) refreshOrderMirror(ctx context.Context, userEmail string) {
	orders, err := srv.orderRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		srv.log(ctx).Warn("Failed to re-read orders for local mirror", slog.Any("error", err))

		return
	}

	if err := srv.local.CacheOrders(orders); err != nil {
		srv.log(ctx).Warn("Failed to write order mirror", slog.Any("error", err))
	}
}

// SetOrderStatus persists the transition inside a transaction, then runs
// stock reconciliation when the order just became Delivered. The
// transition is never rolled back for reconciliation failures.
func (srv *orderService) SetOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, domainerrors.ErrInvalidOrderStatus.WithDetails(string(status))
	}

	srv.log(ctx).Info("Setting order status",
		slog.String("order_id", orderID),
		slog.String("status", string(status)))

	var order *entity.Order
	var previous entity.OrderStatus

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		found, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to load order")
		}

		previous = found.Status

		if err := orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
			return errors.Wrap(err, "failed to persist order status")
		}

		found.Status = status
		order = found

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to set order status", slog.Any("error", err), slog.String("order_id", orderID))

		if errors.Is(err, domainerrors.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to set order status")
	}

	// Only the transition into Delivered decrements stock, and only once:
	// re-delivering an already Delivered order is a no-op.
	if status == entity.StatusDelivered && previous != entity.StatusDelivered {
		srv.reconcileStock(ctx, order)
	}

	return order, nil
}

// reconcileStock decrements tracked stock for every product of a delivered
// order, one product at a time, clamping at zero. Products that have since
// been deleted or are untracked are skipped. Failures are logged per
// product and never abort the remaining products.
func (srv *orderService) reconcileStock(ctx context.Context, order *entity.Order) {
	// Two lines of one order can name the same product; summing first keeps
	// the read-modify-write below single-writer per product.
	quantities := make(map[string]float64, len(order.Items))
	for _, item := range order.Items {
		quantities[item.Product.ProductID] += item.Quantity
	}

	var wg sync.WaitGroup

	for productID, quantity := range quantities {
		wg.Add(1)
		go func(productID string, quantity float64) {
			defer wg.Done()

			product, err := srv.productRepo.FindByID(ctx, productID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					srv.log(ctx).Warn("Skipping stock reconciliation for deleted product",
						slog.String("order_id", order.ID),
						slog.String("product_id", productID))

					return
				}

				srv.log(ctx).Error("Failed to load product for stock reconciliation",
					slog.Any("error", err),
					slog.String("order_id", order.ID),
					slog.String("product_id", productID))

				return
			}

			if product.Stock == nil {
				return
			}

			// Fractional weights round up so tracked stock never overstates
			// what is left on the shelf.
			remaining := *product.Stock - int(math.Ceil(quantity))
			if remaining < 0 {
				remaining = 0
			}

			if err := srv.productRepo.UpdateStock(ctx, productID, remaining); err != nil {
				srv.log(ctx).Error("Failed to update stock after delivery",
					slog.Any("error", err),
					slog.String("order_id", order.ID),
					slog.String("product_id", productID))

				return
			}

			srv.log(ctx).Info("Reconciled stock after delivery",
				slog.String("order_id", order.ID),
				slog.String("product_id", productID),
				slog.Int("remaining", remaining))
		}(productID, quantity)
	}

	wg.Wait()

	// The catalog mirror holds stale stock numbers until it is re-read.
	products, err := srv.productRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Warn("Failed to re-read catalog after reconciliation", slog.Any("error", err))

		return
	}
	if err := srv.local.CacheProducts(products); err != nil {
		srv.log(ctx).Warn("Failed to write catalog mirror", slog.Any("error", err))
	}
}

// HasNewPendingOrders reports whether a Pending order arrived after the
// administrator's last dashboard view. A never-viewed dashboard counts
// every Pending order.
func (srv *orderService) HasNewPendingOrders(ctx context.Context) (bool, error) {
	lastView, err := srv.local.LastDashboardView()
	if err != nil {
		srv.log(ctx).Warn("Failed to read last dashboard view", slog.Any("error", err))
		lastView = time.Time{}
	}

	count, err := srv.orderRepo.CountPendingSince(ctx, lastView)
	if err != nil {
		return false, domainerrors.NewPersistenceError(err, "failed to count pending orders")
	}

	return count > 0, nil
}

// MarkDashboardViewed records now as the last dashboard view.
func (srv *orderService) MarkDashboardViewed(ctx context.Context) error {
	if err := srv.local.SetLastDashboardView(time.Now()); err != nil {
		srv.log(ctx).Error("Failed to record dashboard view", slog.Any("error", err))

		return domainerrors.ErrInternalError.WithDetails("failed to record dashboard view")
	}

	return nil
}
