package application

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

// CancelOrderCommand represents an explicit cancel request
type CancelOrderCommand struct {
	OrderID       string `json:"order_id"`
	Reason        string `json:"reason"`
	CorrelationID string `json:"-"`
}

// CancelOrderResponse reports the outcome of a cancel request. Cancelled is
// false when the order had already left pending status.
type CancelOrderResponse struct {
	OrderID   string `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
	Status    string `json:"status"`
}

// CancelOrder handles explicit cancellation of a pending order
type CancelOrder struct {
	applyTransition *ApplyTransition
	eventPublisher  events.Publisher
}

// NewCancelOrder creates a new CancelOrder use case
func NewCancelOrder(applyTransition *ApplyTransition, eventPublisher events.Publisher) *CancelOrder {
	return &CancelOrder{
		applyTransition: applyTransition,
		eventPublisher:  eventPublisher,
	}
}

// Execute executes the cancel order use case
func (uc *CancelOrder) Execute(ctx context.Context, cmd *CancelOrderCommand) (*CancelOrderResponse, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidRequest, "invalid order ID")
	}

	result, err := uc.applyTransition.Execute(ctx, orderID, domain.TriggerCancelRequested, nil)
	if err != nil {
		return nil, err
	}

	response := &CancelOrderResponse{
		OrderID:   cmd.OrderID,
		Cancelled: result.Applied,
		Status:    string(result.NewStatus),
	}

	if !result.Applied {
		return response, nil
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "cancelled by request"
	}

	cancelled := events.NewEvent(orderID, events.OrderCancelledEvent, domain.OrderCancelledData{
		OrderID: orderID,
		Reason:  reason,
	}).WithCorrelationID(models.ID(cmd.CorrelationID))

	if err := uc.eventPublisher.Publish(ctx, cancelled); err != nil {
		return nil, errors.Wrap(err, "order cancelled but failed to publish cancellation event")
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", cmd.OrderID, "reason", reason)

	return response, nil
}
