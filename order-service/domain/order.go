package domain

import (
	"context"

	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending       OrderStatus = "pending"
	StatusConfirmed     OrderStatus = "confirmed"
	StatusCancelled     OrderStatus = "cancelled"
	StatusPaymentFailed OrderStatus = "payment_failed"
)

// OrderItem is a line item with the product name and unit price snapshotted at
// order-creation time. Items are immutable once the order exists.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   models.Money
}

// Subtotal returns quantity times unit price
func (i OrderItem) Subtotal() models.Money {
	return i.UnitPrice.Multiply(i.Quantity)
}

// Order aggregate root. Status is the only field mutated after creation;
// the item list never changes.
type Order struct {
	ID                   models.ID
	UserID               models.ID
	Items                []OrderItem
	TotalAmount          models.Money
	ShippingAddress      string
	Status               OrderStatus
	PaymentTransactionID *string
	Timestamps           models.Timestamps
	Version              models.Version

	events []*events.Event
}

// CreateOrder builds a new order in pending status from already-validated item
// snapshots. The total is the sum of the item subtotals and is never
// recomputed afterwards.
func CreateOrder(userID models.ID, shippingAddress string, items []OrderItem) (*Order, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if shippingAddress == "" {
		return nil, errors.New("shipping address is required")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	total := models.NewMoney(0, items[0].UnitPrice.Currency)
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.Errorf("invalid quantity for product %s", item.ProductID)
		}

		var err error
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price for product %s", item.ProductID)
		}
	}

	order := &Order{
		ID:              models.GenerateUUID(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: shippingAddress,
		Status:          StatusPending,
		Timestamps:      models.NewTimestamps(),
		Version:         models.NewVersion(),
	}

	itemData := make([]OrderItemData, len(items))
	for i, item := range items {
		itemData[i] = OrderItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	order.recordEvent(events.NewEvent(order.ID, events.OrderCreatedEvent, OrderCreatedData{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       itemData,
	}))

	return order, nil
}

// Events returns recorded domain events
func (o *Order) Events() []*events.Event {
	return o.events
}

// ClearEvents clears recorded domain events
func (o *Order) ClearEvents() {
	o.events = make([]*events.Event, 0)
}

func (o *Order) recordEvent(event *events.Event) {
	o.events = append(o.events, event)
}

// Event data structures
type OrderItemData struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
}

type OrderCreatedData struct {
	OrderID     models.ID       `json:"order_id"`
	UserID      models.ID       `json:"user_id"`
	TotalAmount models.Money    `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

type StockReservedData struct {
	OrderID       models.ID        `json:"order_id"`
	ReservedItems map[string]int64 `json:"reserved_items"`
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
}

type PaymentProcessedData struct {
	OrderID       models.ID `json:"order_id"`
	Success       bool      `json:"success"`
	TransactionID string    `json:"transaction_id"`
	Message       string    `json:"message"`
}

type OrderConfirmedData struct {
	OrderID     models.ID    `json:"order_id"`
	UserEmail   string       `json:"user_email"`
	TotalAmount models.Money `json:"total_amount"`
}

type OrderCancelledData struct {
	OrderID models.ID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// OrderRepository is the persistence contract for orders. Create stores the
// order and its items as one atomic unit. UpdateStatus is a compare-and-set on
// the current status; it reports whether the row was actually transitioned, so
// racing triggers serialize on the database row.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	FindByUserID(ctx context.Context, userID models.ID) ([]*Order, error)
	List(ctx context.Context, page, pageSize int) ([]*Order, int, error)
	UpdateStatus(ctx context.Context, id models.ID, from, to OrderStatus, transactionID *string) (bool, error)
}
