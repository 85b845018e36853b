package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	items := []OrderItem{
		{Product: ProductSnapshot{Price: 1.49}, Quantity: 2},
		{Product: ProductSnapshot{Price: 18.90}, Quantity: 0.5},
	}

	assert.InDelta(t, 12.43, ComputeTotal(items), 1e-9)
	assert.Zero(t, ComputeTotal(nil))
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusInPreparation, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, ValidOrderStatus(status))
	}
	assert.False(t, ValidOrderStatus(OrderStatus("Lost")))
}

func TestSnapshot_FreezesIdentityFields(t *testing.T) {
	product := &Product{
		ID:           "p1",
		Name:         "Whole Milk 1L",
		Price:        1.49,
		ImageURL:     "https://example.com/milk.png",
		QuantityType: QuantityUnit,
	}

	snapshot := product.Snapshot()

	product.Name = "Renamed"
	product.Price = 9.99

	assert.Equal(t, "Whole Milk 1L", snapshot.Name)
	assert.Equal(t, 1.49, snapshot.Price)
	assert.Equal(t, "p1", snapshot.ProductID)
}
