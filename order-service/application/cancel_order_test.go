package application

import (
	"context"
	"testing"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/order-service/mocks"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCancelOrder_Execute(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("cancels a pending order", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(pendingOrder(orderID), nil).Once()
		mockRepo.EXPECT().UpdateStatus(mock.Anything, orderID, domain.StatusPending, domain.StatusCancelled, (*string)(nil)).
			Return(true, nil).Once()

		mockPublisher := mocks.NewMockPublisher(t)
		mockPublisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
			if evt.EventType != events.OrderCancelledEvent {
				return false
			}
			var data domain.OrderCancelledData
			if err := evt.UnmarshalPayload(&data); err != nil {
				return false
			}
			return data.Reason == "changed my mind"
		})).Return(nil).Once()

		useCase := NewCancelOrder(NewApplyTransition(mockRepo), mockPublisher)

		response, err := useCase.Execute(context.Background(), &CancelOrderCommand{
			OrderID: orderID.String(),
			Reason:  "changed my mind",
		})

		assert.NoError(t, err)
		assert.True(t, response.Cancelled)
		assert.Equal(t, string(domain.StatusCancelled), response.Status)
	})

	t.Run("defaults the cancellation reason", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(pendingOrder(orderID), nil).Once()
		mockRepo.EXPECT().UpdateStatus(mock.Anything, orderID, domain.StatusPending, domain.StatusCancelled, (*string)(nil)).
			Return(true, nil).Once()

		mockPublisher := mocks.NewMockPublisher(t)
		mockPublisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
			var data domain.OrderCancelledData
			if err := evt.UnmarshalPayload(&data); err != nil {
				return false
			}
			return data.Reason == "cancelled by request"
		})).Return(nil).Once()

		useCase := NewCancelOrder(NewApplyTransition(mockRepo), mockPublisher)

		response, err := useCase.Execute(context.Background(), &CancelOrderCommand{OrderID: orderID.String()})

		assert.NoError(t, err)
		assert.True(t, response.Cancelled)
	})

	t.Run("settled order cannot be cancelled", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(confirmedOrder(orderID), nil).Once()

		mockPublisher := mocks.NewMockPublisher(t)
		// No cancellation event for a no-op

		useCase := NewCancelOrder(NewApplyTransition(mockRepo), mockPublisher)

		response, err := useCase.Execute(context.Background(), &CancelOrderCommand{OrderID: orderID.String()})

		assert.NoError(t, err)
		assert.False(t, response.Cancelled)
		assert.Equal(t, string(domain.StatusConfirmed), response.Status)
	})

	t.Run("invalid order ID", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockPublisher := mocks.NewMockPublisher(t)

		useCase := NewCancelOrder(NewApplyTransition(mockRepo), mockPublisher)

		response, err := useCase.Execute(context.Background(), &CancelOrderCommand{OrderID: "not-a-uuid"})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
		assert.Nil(t, response)
	})

	t.Run("unknown order", func(t *testing.T) {
		mockRepo := mocks.NewMockOrderRepository(t)
		mockRepo.EXPECT().FindByID(mock.Anything, orderID).Return(nil, nil).Once()

		mockPublisher := mocks.NewMockPublisher(t)

		useCase := NewCancelOrder(NewApplyTransition(mockRepo), mockPublisher)

		response, err := useCase.Execute(context.Background(), &CancelOrderCommand{OrderID: orderID.String()})

		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
		assert.Nil(t, response)
	})
}
