package application

import (
	"context"
	"testing"
	"time"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/order-service/mocks"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testUserID = "550e8400-e29b-41d4-a716-446655440010"

func TestCreateOrderSaga_Execute(t *testing.T) {
	keyboard := &domain.ProductSnapshot{
		ProductID: "prod-1",
		Name:      "Mechanical Keyboard",
		Price:     models.NewMoney(4500, "USD"),
	}
	cable := &domain.ProductSnapshot{
		ProductID: "prod-2",
		Name:      "USB Cable",
		Price:     models.NewMoney(500, "USD"),
	}

	tests := []struct {
		name          string
		command       *CreateOrderCommand
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockValidationGateway, *mocks.MockPublisher)
		expectedErrIs error
		expectedError string
		check         func(*testing.T, *OrderDTO)
	}{
		{
			name: "successful order creation",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items: []CreateOrderItem{
					{ProductID: "prod-1", Quantity: 2},
					{ProductID: "prod-2", Quantity: 1},
				},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-1").Return(keyboard, nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-2").Return(cable, nil).Once()
				repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
					return evt.EventType == events.OrderCreatedEvent
				})).Return(nil).Once()
			},
			check: func(t *testing.T, result *OrderDTO) {
				assert.Equal(t, string(domain.StatusPending), result.Status)
				assert.Equal(t, int64(9500), result.TotalAmount.Amount)
				assert.Equal(t, "USD", result.TotalAmount.Currency)
				assert.Len(t, result.Items, 2)
				assert.Equal(t, "Mechanical Keyboard", result.Items[0].ProductName)
				assert.Equal(t, int64(9000), result.Items[0].Subtotal.Amount)
			},
		},
		{
			name: "user does not exist",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).
					Return(errors.Wrap(domain.ErrUserNotFound, "user "+testUserID)).Once()
			},
			expectedErrIs: domain.ErrUserNotFound,
		},
		{
			name: "one unknown product aborts the whole order",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items: []CreateOrderItem{
					{ProductID: "prod-1", Quantity: 1},
					{ProductID: "prod-missing", Quantity: 1},
				},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-1").Return(keyboard, nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-missing").
					Return(nil, &domain.ProductNotFoundError{ProductID: "prod-missing"}).Once()
				// Nothing persisted, nothing published
			},
			expectedError: "product prod-missing not found",
		},
		{
			name: "catalog service unavailable",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-1").
					Return(nil, errors.New("connection refused")).Once()
			},
			expectedErrIs: domain.ErrGatewayUnavailable,
		},
		{
			name: "validation deadline exceeded",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).
					Return(errors.Wrap(context.DeadlineExceeded, "identity service unreachable")).Once()
			},
			expectedErrIs: domain.ErrValidationTimeout,
		},
		{
			name: "invalid user ID format",
			command: &CreateOrderCommand{
				UserID:          "not-a-uuid",
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail before calling mocks
			},
			expectedErrIs: domain.ErrInvalidRequest,
			expectedError: "invalid user ID",
		},
		{
			name: "empty user ID",
			command: &CreateOrderCommand{
				UserID:          "",
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedErrIs: domain.ErrInvalidRequest,
			expectedError: "user ID is required",
		},
		{
			name: "missing shipping address",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedErrIs: domain.ErrInvalidRequest,
			expectedError: "shipping address is required",
		},
		{
			name: "no items",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           nil,
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedErrIs: domain.ErrInvalidRequest,
			expectedError: "at least one item",
		},
		{
			name: "non positive quantity",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 0}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				// No expectations - should fail validation
			},
			expectedErrIs: domain.ErrInvalidRequest,
			expectedError: "quantity must be positive for product prod-1",
		},
		{
			name: "repository save error",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-1").Return(keyboard, nil).Once()
				repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(errors.New("database error")).Once()
				// Nothing published when persistence fails
			},
			expectedError: "failed to save order",
		},
		{
			name: "event publisher error",
			command: &CreateOrderCommand{
				UserID:          testUserID,
				ShippingAddress: "123 Main St",
				Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
			},
			setupMocks: func(repo *mocks.MockOrderRepository, gateway *mocks.MockValidationGateway, publisher *mocks.MockPublisher) {
				gateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
				gateway.EXPECT().FetchProduct(mock.Anything, "prod-1").Return(keyboard, nil).Once()
				repo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).
					Return(errors.New("publisher error")).Once()
			},
			expectedError: "order persisted but failed to publish creation event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockOrderRepository(t)
			mockGateway := mocks.NewMockValidationGateway(t)
			mockPublisher := mocks.NewMockPublisher(t)

			tt.setupMocks(mockRepo, mockGateway, mockPublisher)

			useCase := NewCreateOrderSaga(mockRepo, mockGateway, mockPublisher, 30*time.Second)

			result, err := useCase.Execute(context.Background(), tt.command)

			if tt.expectedErrIs != nil || tt.expectedError != "" {
				assert.Error(t, err)
				if tt.expectedErrIs != nil {
					assert.True(t, errors.Is(err, tt.expectedErrIs), "expected %v in chain, got %v", tt.expectedErrIs, err)
				}
				if tt.expectedError != "" {
					assert.Contains(t, err.Error(), tt.expectedError)
				}
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.OrderID)
				assert.Equal(t, testUserID, result.UserID)

				_, err := models.NewID(result.OrderID)
				assert.NoError(t, err)

				if tt.check != nil {
					tt.check(t, result)
				}
			}
		})
	}
}

func TestCreateOrderSaga_Execute_PropagatesCorrelationID(t *testing.T) {
	mockRepo := mocks.NewMockOrderRepository(t)
	mockGateway := mocks.NewMockValidationGateway(t)
	mockPublisher := mocks.NewMockPublisher(t)

	mockGateway.EXPECT().UserExists(mock.Anything, models.ID(testUserID)).Return(nil).Once()
	mockGateway.EXPECT().FetchProduct(mock.Anything, "prod-1").Return(&domain.ProductSnapshot{
		ProductID: "prod-1",
		Name:      "Keyboard",
		Price:     models.NewMoney(4500, "USD"),
	}, nil).Once()
	mockRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	mockPublisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(evt *events.Event) bool {
		return evt.CorrelationID == models.ID("req-42")
	})).Return(nil).Once()

	useCase := NewCreateOrderSaga(mockRepo, mockGateway, mockPublisher, 30*time.Second)

	result, err := useCase.Execute(context.Background(), &CreateOrderCommand{
		UserID:          testUserID,
		ShippingAddress: "123 Main St",
		Items:           []CreateOrderItem{{ProductID: "prod-1", Quantity: 1}},
		CorrelationID:   "req-42",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}
