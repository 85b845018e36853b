package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T, orderRepo *mockOrderRepository, productRepo *mockProductRepository) usecase.OrderUsecase {
	t.Helper()

	return NewOrderService(
		orderRepo,
		productRepo,
		&stubTxManager{orders: orderRepo, products: productRepo},
		newTestStore(t),
		slog.Default(),
	)
}

func TestSubmitOrder_RejectsEmptyItems(t *testing.T) {
	svc := newOrderService(t, new(mockOrderRepository), new(mockProductRepository))

	_, err := svc.SubmitOrder(context.Background(), "Corner Shop", "shop@example.com", nil)

	assert.ErrorIs(t, err, domainerrors.ErrEmptyOrder)
}

func TestSubmitOrder_FreezesSnapshotsAndComputesTotal(t *testing.T) {
	milk := &entity.Product{ID: "p1", Name: "Whole Milk 1L", Price: 1.49, QuantityType: entity.QuantityUnit}
	gouda := &entity.Product{ID: "p2", Name: "Aged Gouda", Price: 18.90, QuantityType: entity.QuantityKg}

	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "p1").Return(milk, nil)
	productRepo.On("FindByID", mock.Anything, "p2").Return(gouda, nil)

	orderRepo := new(mockOrderRepository)
	var created *entity.Order
	orderRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Order)
	}).Return(nil)
	orderRepo.On("FindByEmail", mock.Anything, "shop@example.com").Return([]*entity.Order{}, nil)

	svc := newOrderService(t, orderRepo, productRepo)

	order, err := svc.SubmitOrder(context.Background(), "Corner Shop", "shop@example.com", []usecase.OrderItemInput{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 0.5},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.OrderDate.IsZero())

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Whole Milk 1L", order.Items[0].Product.Name)
	assert.Equal(t, 1.49, order.Items[0].Product.Price)
	assert.InDelta(t, 1.49*2+18.90*0.5, order.TotalAmount, 1e-9)
}

func TestSubmitOrder_UnknownProductRejectsWholeOrder(t *testing.T) {
	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrProductNotFound)

	orderRepo := new(mockOrderRepository)

	svc := newOrderService(t, orderRepo, productRepo)

	_, err := svc.SubmitOrder(context.Background(), "Corner Shop", "shop@example.com", []usecase.OrderItemInput{
		{ProductID: "ghost", Quantity: 1},
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", appErr.ErrorCode())
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSetOrderStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newOrderService(t, new(mockOrderRepository), new(mockProductRepository))

	_, err := svc.SetOrderStatus(context.Background(), "o1", entity.OrderStatus("Teleported"))

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_ORDER_STATUS", appErr.ErrorCode())
}

func TestSetOrderStatus_AbsentOrderIsNotFound(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrOrderNotFound)

	svc := newOrderService(t, orderRepo, new(mockProductRepository))

	_, err := svc.SetOrderStatus(context.Background(), "missing", entity.StatusShipped)

	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetOrderStatus_DeliveredReconcilesTrackedStock(t *testing.T) {
	stock := 10
	milk := &entity.Product{ID: "p1", Name: "Whole Milk 1L", Price: 1.49, Stock: &stock}

	order := &entity.Order{
		ID:     "o1",
		Status: entity.StatusShipped,
		Items: []entity.OrderItem{
			{Product: milk.Snapshot(), Quantity: 3},
		},
	}

	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, "o1", entity.StatusDelivered).Return(nil)

	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "p1").Return(milk, nil)
	productRepo.On("UpdateStock", mock.Anything, "p1", 7).Return(nil)
	productRepo.On("FindAll", mock.Anything).Return([]*entity.Product{milk}, nil)

	svc := newOrderService(t, orderRepo, productRepo)

	updated, err := svc.SetOrderStatus(context.Background(), "o1", entity.StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, updated.Status)
	productRepo.AssertExpectations(t)
}

func TestSetOrderStatus_DuplicateProductLinesDecrementOnce(t *testing.T) {
	stock := 10
	gouda := &entity.Product{ID: "p1", Name: "Aged Gouda", QuantityType: entity.QuantityKg, Stock: &stock}

	order := &entity.Order{
		ID:     "o1",
		Status: entity.StatusShipped,
		Items: []entity.OrderItem{
			{Product: gouda.Snapshot(), Quantity: 1.5},
			{Product: gouda.Snapshot(), Quantity: 1.5},
		},
	}

	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, "o1", entity.StatusDelivered).Return(nil)

	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "p1").Return(gouda, nil)
	// The two lines sum to 3kg before the ceiling, not 2kg each.
	productRepo.On("UpdateStock", mock.Anything, "p1", 7).Return(nil)
	productRepo.On("FindAll", mock.Anything).Return([]*entity.Product{gouda}, nil)

	svc := newOrderService(t, orderRepo, productRepo)

	_, err := svc.SetOrderStatus(context.Background(), "o1", entity.StatusDelivered)

	require.NoError(t, err)
	productRepo.AssertNumberOfCalls(t, "UpdateStock", 1)
	productRepo.AssertExpectations(t)
}

func TestSetOrderStatus_StockClampsAtZero(t *testing.T) {
	stock := 2
	milk := &entity.Product{ID: "p1", Name: "Whole Milk 1L", Stock: &stock}

	order := &entity.Order{
		ID:     "o1",
		Status: entity.StatusPending,
		Items:  []entity.OrderItem{{Product: milk.Snapshot(), Quantity: 5}},
	}

	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, "o1", entity.StatusDelivered).Return(nil)

	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "p1").Return(milk, nil)
	productRepo.On("UpdateStock", mock.Anything, "p1", 0).Return(nil)
	productRepo.On("FindAll", mock.Anything).Return([]*entity.Product{milk}, nil)

	svc := newOrderService(t, orderRepo, productRepo)

	_, err := svc.SetOrderStatus(context.Background(), "o1", entity.StatusDelivered)

	require.NoError(t, err)
	productRepo.AssertExpectations(t)
}

func TestSetOrderStatus_RedeliveryDoesNotDecrementTwice(t *testing.T) {
	order := &entity.Order{
		ID:     "o1",
		Status: entity.StatusDelivered,
		Items:  []entity.OrderItem{{Product: entity.ProductSnapshot{ProductID: "p1"}, Quantity: 1}},
	}

	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, "o1", entity.StatusDelivered).Return(nil)

	productRepo := new(mockProductRepository)

	svc := newOrderService(t, orderRepo, productRepo)

	_, err := svc.SetOrderStatus(context.Background(), "o1", entity.StatusDelivered)

	require.NoError(t, err)
	productRepo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetOrderStatus_UntrackedStockIsSkipped(t *testing.T) {
	milk := &entity.Product{ID: "p1", Name: "Whole Milk 1L"}

	order := &entity.Order{
		ID:     "o1",
		Status: entity.StatusShipped,
		Items:  []entity.OrderItem{{Product: milk.Snapshot(), Quantity: 2}},
	}

	orderRepo := new(mockOrderRepository)
	orderRepo.On("FindByID", mock.Anything, "o1").Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, "o1", entity.StatusDelivered).Return(nil)

	productRepo := new(mockProductRepository)
	productRepo.On("FindByID", mock.Anything, "p1").Return(milk, nil)
	productRepo.On("FindAll", mock.Anything).Return([]*entity.Product{milk}, nil)

	svc := newOrderService(t, orderRepo, productRepo)

	_, err := svc.SetOrderStatus(context.Background(), "o1", entity.StatusDelivered)

	require.NoError(t, err)
	productRepo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestHasNewPendingOrders_NeverViewedCountsEverything(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	orderRepo.On("CountPendingSince", mock.Anything, time.Time{}).Return(int64(2), nil)

	svc := newOrderService(t, orderRepo, new(mockProductRepository))

	hasNew, err := svc.HasNewPendingOrders(context.Background())

	require.NoError(t, err)
	assert.True(t, hasNew)
}

func TestMarkDashboardViewed_ClearsNotification(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	orderRepo.On("CountPendingSince", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return !since.IsZero()
	})).Return(int64(0), nil)

	svc := newOrderService(t, orderRepo, new(mockProductRepository))

	require.NoError(t, svc.MarkDashboardViewed(context.Background()))

	hasNew, err := svc.HasNewPendingOrders(context.Background())
	require.NoError(t, err)
	assert.False(t, hasNew)
}
