package application

import (
	"context"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

// GetOrderQuery represents the query to get an order
type GetOrderQuery struct {
	OrderID string `json:"order_id"`
}

// GetOrder use case retrieves a single order
type GetOrder struct {
	orderRepository domain.OrderRepository
}

// NewGetOrder creates a new GetOrder use case
func NewGetOrder(orderRepository domain.OrderRepository) *GetOrder {
	return &GetOrder{orderRepository: orderRepository}
}

// Execute executes the get order query
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*OrderDTO, error) {
	orderID, err := models.NewID(query.OrderID)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidRequest, "invalid order ID")
	}

	order, err := uc.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	return toOrderDTO(order), nil
}
