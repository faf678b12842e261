package application

import (
	"context"
	"testing"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/order-service/mocks"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetOrder_Execute(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("returns the order", func(t *testing.T) {
		order := pendingOrder(orderID)
		order.Items = []domain.OrderItem{
			{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 2, UnitPrice: models.NewMoney(4500, "USD")},
		}

		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(order, nil).Once()

		useCase := NewGetOrder(mockRepo)

		result, err := useCase.Execute(context.Background(), &GetOrderQuery{OrderID: orderID.String()})

		assert.NoError(t, err)
		assert.Equal(t, orderID.String(), result.OrderID)
		assert.Equal(t, string(domain.StatusPending), result.Status)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, int64(9000), result.Items[0].Subtotal.Amount)
	})

	t.Run("unknown order", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(nil, nil).Once()

		useCase := NewGetOrder(mockRepo)

		result, err := useCase.Execute(context.Background(), &GetOrderQuery{OrderID: orderID.String()})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
		assert.Nil(t, result)
	})

	t.Run("invalid order ID", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)

		useCase := NewGetOrder(mockRepo)

		result, err := useCase.Execute(context.Background(), &GetOrderQuery{OrderID: "not-a-uuid"})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
		assert.Nil(t, result)
	})
}

func TestListOrders_Execute(t *testing.T) {
	t.Run("returns a page with defaults applied", func(t *testing.T) {
		orderID := models.GenerateUUID()

		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().List(mock.Anything, 1, defaultPageSize).
			Return([]*domain.Order{pendingOrder(orderID)}, 1, nil).Once()

		useCase := NewListOrders(mockRepo)

		result, err := useCase.Execute(context.Background(), &ListOrdersQuery{})

		assert.NoError(t, err)
		assert.Equal(t, 1, result.TotalItems)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, defaultPageSize, result.PageSize)
		assert.Len(t, result.Items, 1)
	})

	t.Run("caps the page size", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().List(mock.Anything, 3, maxPageSize).
			Return([]*domain.Order{}, 0, nil).Once()

		useCase := NewListOrders(mockRepo)

		result, err := useCase.Execute(context.Background(), &ListOrdersQuery{Page: 3, PageSize: 1000})

		assert.NoError(t, err)
		assert.Equal(t, maxPageSize, result.PageSize)
		assert.Empty(t, result.Items)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().List(mock.Anything, 1, defaultPageSize).
			Return(nil, 0, errors.New("database error")).Once()

		useCase := NewListOrders(mockRepo)

		result, err := useCase.Execute(context.Background(), &ListOrdersQuery{})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestListUserOrders_Execute(t *testing.T) {
	userID := models.ID(testUserID)

	t.Run("returns the user's orders", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByUserID(mock.Anything, userID).
			Return([]*domain.Order{pendingOrder(models.GenerateUUID()), confirmedOrder(models.GenerateUUID())}, nil).Once()

		useCase := NewListUserOrders(mockRepo)

		result, err := useCase.Execute(context.Background(), &ListUserOrdersQuery{UserID: testUserID})

		assert.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("invalid user ID", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)

		useCase := NewListUserOrders(mockRepo)

		result, err := useCase.Execute(context.Background(), &ListUserOrdersQuery{UserID: "nope"})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
		assert.Nil(t, result)
	})
}
