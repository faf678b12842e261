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

func TestProcessStockResult_Execute(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("successful reservation needs no transition", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		// No repository calls at all

		useCase := NewProcessStockResult(NewApplyTransition(mockRepo))

		err := useCase.Execute(context.Background(), &ProcessStockResultCommand{
			OrderID: orderID,
			Success: true,
		})

		assert.NoError(t, err)
	})

	t.Run("failed reservation cancels the order", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(pendingOrder(orderID), nil).Once()
		mockRepo.EXPECT().UpdateStatus(mock.Anything, orderID, domain.StatusPending, domain.StatusCancelled, (*string)(nil)).
			Return(true, nil).Once()

		useCase := NewProcessStockResult(NewApplyTransition(mockRepo))

		err := useCase.Execute(context.Background(), &ProcessStockResultCommand{
			OrderID: orderID,
			Success: false,
			Message: "insufficient stock",
		})

		assert.NoError(t, err)
	})

	t.Run("redelivered failure is a no-op on a settled order", func(t *testing.T) {
		cancelled := pendingOrder(orderID)
		cancelled.Status = domain.StatusCancelled

		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(cancelled, nil).Once()
		// No UpdateStatus: the guard table rejects the trigger

		useCase := NewProcessStockResult(NewApplyTransition(mockRepo))

		err := useCase.Execute(context.Background(), &ProcessStockResultCommand{
			OrderID: orderID,
			Success: false,
			Message: "insufficient stock",
		})

		assert.NoError(t, err)
	})

	t.Run("missing order ID", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)

		useCase := NewProcessStockResult(NewApplyTransition(mockRepo))

		err := useCase.Execute(context.Background(), &ProcessStockResultCommand{Success: false})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "order ID is required")
	})

	t.Run("unknown order propagates for redelivery", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(nil, nil).Once()

		useCase := NewProcessStockResult(NewApplyTransition(mockRepo))

		err := useCase.Execute(context.Background(), &ProcessStockResultCommand{
			OrderID: orderID,
			Success: false,
		})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
	})
}
