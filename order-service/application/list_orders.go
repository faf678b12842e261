package application

import (
	"context"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOrdersQuery represents the query for a page of orders
type ListOrdersQuery struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ListOrders use case retrieves a page of orders, newest first
type ListOrders struct {
	orderRepository domain.OrderRepository
}

// NewListOrders creates a new ListOrders use case
func NewListOrders(orderRepository domain.OrderRepository) *ListOrders {
	return &ListOrders{orderRepository: orderRepository}
}

// Execute executes the list orders query
func (uc *ListOrders) Execute(ctx context.Context, query *ListOrdersQuery) (*PagedOrdersDTO, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	orders, total, err := uc.orderRepository.List(ctx, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	items := make([]*OrderDTO, len(orders))
	for i, order := range orders {
		items[i] = toOrderDTO(order)
	}

	return &PagedOrdersDTO{
		Items:      items,
		TotalItems: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListUserOrdersQuery represents the query for a user's orders
type ListUserOrdersQuery struct {
	UserID string `json:"user_id"`
}

// ListUserOrders use case retrieves all orders of a user, newest first
type ListUserOrders struct {
	orderRepository domain.OrderRepository
}

// NewListUserOrders creates a new ListUserOrders use case
func NewListUserOrders(orderRepository domain.OrderRepository) *ListUserOrders {
	return &ListUserOrders{orderRepository: orderRepository}
}

// Execute executes the list user orders query
func (uc *ListUserOrders) Execute(ctx context.Context, query *ListUserOrdersQuery) ([]*OrderDTO, error) {
	userID, err := models.NewID(query.UserID)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidRequest, "invalid user ID")
	}

	orders, err := uc.orderRepository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user ID")
	}

	items := make([]*OrderDTO, len(orders))
	for i, order := range orders {
		items[i] = toOrderDTO(order)
	}

	return items, nil
}
