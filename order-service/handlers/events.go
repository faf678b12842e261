package handlers

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-system/order-service/application"
	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// OrderEventHandlers routes inbound saga events to their use cases. Handlers
// must tolerate duplicated, out-of-order and concurrently delivered events:
// the guarded state machine underneath turns stale triggers into no-ops, so a
// redelivered event is simply handled again.
type OrderEventHandlers struct {
	processStockResult   *application.ProcessStockResult
	processPaymentResult *application.ProcessPaymentResult
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(
	processStockResult *application.ProcessStockResult,
	processPaymentResult *application.ProcessPaymentResult,
) *OrderEventHandlers {
	return &OrderEventHandlers{
		processStockResult:   processStockResult,
		processPaymentResult: processPaymentResult,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *OrderEventHandlers) HandlerID() string {
	return "order-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "consume "+event.EventType)
	defer span.End()

	telemetry.RecordCounter(ctx, "order_events_consumed_total", "Order saga events consumed", 1,
		attribute.String("topic", event.EventType),
	)

	switch event.EventType {
	case events.StockReservedEvent:
		return h.HandleStockReserved(ctx, event)
	case events.PaymentProcessedEvent:
		return h.HandlePaymentProcessed(ctx, event)
	default:
		// Not an event this service reacts to.
		return nil
	}
}

// HandleStockReserved handles stock reservation outcomes from the inventory
// service.
func (h *OrderEventHandlers) HandleStockReserved(ctx context.Context, event *events.Event) error {
	var data domain.StockReservedData
	if err := event.UnmarshalPayload(&data); err != nil {
		// A payload that cannot be decoded will never decode; drop it
		// instead of forcing redelivery.
		slog.ErrorContext(ctx, "dropping malformed stock reserved event",
			"event_id", event.ID.String(), "error", err)
		return nil
	}

	cmd := &application.ProcessStockResultCommand{
		OrderID: data.OrderID,
		Success: data.Success,
		Message: data.Message,
	}

	if err := h.processStockResult.Execute(ctx, cmd); err != nil {
		// Returning the error leaves the message on the queue for redelivery.
		return errors.Wrap(err, "failed to process stock reservation outcome")
	}

	return nil
}

// HandlePaymentProcessed handles payment outcomes from the payment service.
func (h *OrderEventHandlers) HandlePaymentProcessed(ctx context.Context, event *events.Event) error {
	var data domain.PaymentProcessedData
	if err := event.UnmarshalPayload(&data); err != nil {
		slog.ErrorContext(ctx, "dropping malformed payment processed event",
			"event_id", event.ID.String(), "error", err)
		return nil
	}

	cmd := &application.ProcessPaymentResultCommand{
		OrderID:       data.OrderID,
		Success:       data.Success,
		TransactionID: data.TransactionID,
		Message:       data.Message,
		CorrelationID: event.CorrelationID,
	}

	if err := h.processPaymentResult.Execute(ctx, cmd); err != nil {
		return errors.Wrap(err, "failed to process payment outcome")
	}

	return nil
}
