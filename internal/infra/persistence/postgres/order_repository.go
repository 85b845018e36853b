package postgres

import (
	"context"
	"encoding/json"
	"time"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// FindAll retrieves every order, newest first.
func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Order("order_date DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderDomainAll(orderModels)
}

// FindByEmail retrieves one store's order history, newest first.
func (repo *orderRepository) FindByEmail(ctx context.Context, userEmail string) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("order_date DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders by email")
	}

	return toOrderDomainAll(orderModels)
}

// FindByID retrieves a single order by its identifier.
func (repo *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM)
}

// Create persists a new order.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}

	return nil
}

// UpdateStatus persists a status transition for an existing order.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// CountPendingSince counts orders still Pending whose order date is strictly
// after the given instant. The zero time counts all pending orders.
func (repo *orderRepository) CountPendingSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	query := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("status = ?", string(entity.StatusPending))
	if !since.IsZero() {
		query = query.Where("order_date > ?", since)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count pending orders")
	}

	return count, nil
}

// --- Mapper Functions ---

func toOrderDomainAll(orderModels []*model.OrderModel) ([]*entity.Order, error) {
	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		order, err := toOrderDomain(orderM)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// toOrderDomain converts a GORM OrderModel to a domain Order entity,
// decoding the frozen item snapshots from their JSON document.
func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	if data == nil {
		return nil, nil
	}

	var items []entity.OrderItem
	if err := json.Unmarshal(data.Items, &items); err != nil {
		return nil, errors.Wrap(err, "failed to decode order items")
	}

	return &entity.Order{
		ID:          data.ID,
		StoreName:   data.StoreName,
		UserEmail:   data.UserEmail,
		Items:       items,
		OrderDate:   data.OrderDate,
		Status:      entity.OrderStatus(data.Status),
		TotalAmount: data.TotalAmount,
	}, nil
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	if data == nil {
		return nil, nil
	}

	items, err := json.Marshal(data.Items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order items")
	}

	return &model.OrderModel{
		ID:          data.ID,
		StoreName:   data.StoreName,
		UserEmail:   data.UserEmail,
		Items:       datatypes.JSON(items),
		OrderDate:   data.OrderDate,
		Status:      string(data.Status),
		TotalAmount: data.TotalAmount,
	}, nil
}
