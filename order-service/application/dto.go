package application

import (
	"time"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
)

// OrderItemDTO is the external representation of a line item
type OrderItemDTO struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	Subtotal    models.Money `json:"subtotal"`
}

// OrderDTO is the external representation of an order
type OrderDTO struct {
	OrderID              string         `json:"order_id"`
	UserID               string         `json:"user_id"`
	Status               string         `json:"status"`
	TotalAmount          models.Money   `json:"total_amount"`
	ShippingAddress      string         `json:"shipping_address"`
	PaymentTransactionID *string        `json:"payment_transaction_id,omitempty"`
	Items                []OrderItemDTO `json:"items"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// PagedOrdersDTO is a page of orders with the total count
type PagedOrdersDTO struct {
	Items      []*OrderDTO `json:"items"`
	TotalItems int         `json:"total_items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

func toOrderDTO(order *domain.Order) *OrderDTO {
	items := make([]OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}

	return &OrderDTO{
		OrderID:              order.ID.String(),
		UserID:               order.UserID.String(),
		Status:               string(order.Status),
		TotalAmount:          order.TotalAmount,
		ShippingAddress:      order.ShippingAddress,
		PaymentTransactionID: order.PaymentTransactionID,
		Items:                items,
		CreatedAt:            order.Timestamps.CreatedAt,
		UpdatedAt:            order.Timestamps.UpdatedAt,
	}
}
