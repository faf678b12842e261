package domain

import (
	"testing"

	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrder(t *testing.T) {
	userID := models.GenerateUUID()

	items := []OrderItem{
		{
			ProductID:   "prod-1",
			ProductName: "Mechanical Keyboard",
			Quantity:    2,
			UnitPrice:   models.NewMoney(4500, "USD"),
		},
		{
			ProductID:   "prod-2",
			ProductName: "USB Cable",
			Quantity:    3,
			UnitPrice:   models.NewMoney(500, "USD"),
		},
	}

	order, err := CreateOrder(userID, "123 Main St", items)

	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, StatusPending, order.Status)
	assert.Nil(t, order.PaymentTransactionID)

	// 2*4500 + 3*500
	assert.Equal(t, int64(10500), order.TotalAmount.Amount)
	assert.Equal(t, "USD", order.TotalAmount.Currency)
}

func TestCreateOrder_RecordsCreationEvent(t *testing.T) {
	userID := models.GenerateUUID()

	order, err := CreateOrder(userID, "123 Main St", []OrderItem{
		{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 1, UnitPrice: models.NewMoney(4500, "USD")},
	})
	assert.NoError(t, err)

	recorded := order.Events()
	assert.Len(t, recorded, 1)
	assert.Equal(t, events.OrderCreatedEvent, recorded[0].EventType)
	assert.Equal(t, order.ID, recorded[0].AggregateID)

	var data OrderCreatedData
	assert.NoError(t, recorded[0].UnmarshalPayload(&data))
	assert.Equal(t, order.ID, data.OrderID)
	assert.Equal(t, order.TotalAmount, data.TotalAmount)
	assert.Len(t, data.Items, 1)

	order.ClearEvents()
	assert.Empty(t, order.Events())
}

func TestCreateOrder_Validation(t *testing.T) {
	userID := models.GenerateUUID()
	validItems := []OrderItem{
		{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 1, UnitPrice: models.NewMoney(4500, "USD")},
	}

	tests := []struct {
		name            string
		userID          models.ID
		shippingAddress string
		items           []OrderItem
		expectedError   string
	}{
		{
			name:            "missing user ID",
			userID:          "",
			shippingAddress: "123 Main St",
			items:           validItems,
			expectedError:   "user ID is required",
		},
		{
			name:            "missing shipping address",
			userID:          userID,
			shippingAddress: "",
			items:           validItems,
			expectedError:   "shipping address is required",
		},
		{
			name:            "no items",
			userID:          userID,
			shippingAddress: "123 Main St",
			items:           nil,
			expectedError:   "at least one item",
		},
		{
			name:            "zero quantity",
			userID:          userID,
			shippingAddress: "123 Main St",
			items: []OrderItem{
				{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 0, UnitPrice: models.NewMoney(4500, "USD")},
			},
			expectedError: "invalid quantity for product prod-1",
		},
		{
			name:            "mixed currencies",
			userID:          userID,
			shippingAddress: "123 Main St",
			items: []OrderItem{
				{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 1, UnitPrice: models.NewMoney(4500, "USD")},
				{ProductID: "prod-2", ProductName: "Cable", Quantity: 1, UnitPrice: models.NewMoney(500, "EUR")},
			},
			expectedError: "invalid price for product prod-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := CreateOrder(tt.userID, tt.shippingAddress, tt.items)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
			assert.Nil(t, order)
		})
	}
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{
		ProductID: "prod-1",
		Quantity:  4,
		UnitPrice: models.NewMoney(250, "USD"),
	}

	assert.Equal(t, models.NewMoney(1000, "USD"), item.Subtotal())
}
