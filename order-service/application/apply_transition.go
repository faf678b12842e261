package application

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
	"github.com/commercekit/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// TransitionResult reports what ApplyTransition did. Applied is false when the
// trigger found no legal transition from the order's current status, which is
// the expected outcome for duplicated or out-of-order events.
type TransitionResult struct {
	Applied   bool
	NewStatus domain.OrderStatus
	Order     *domain.Order
}

// ApplyTransition advances an order through the guarded state machine. The
// guard and the write are a single compare-and-set on the status column, so
// concurrently delivered triggers serialize on the row: exactly one wins, the
// losers observe a failed precondition and no-op. A writer that loses the race
// retries against the freshly read state exactly once.
type ApplyTransition struct {
	orderRepository domain.OrderRepository
}

// NewApplyTransition creates a new ApplyTransition use case
func NewApplyTransition(orderRepository domain.OrderRepository) *ApplyTransition {
	return &ApplyTransition{orderRepository: orderRepository}
}

// Execute applies the trigger to the order. transactionID, when set, is
// recorded alongside an applied transition (payment reference capture).
func (uc *ApplyTransition) Execute(ctx context.Context, orderID models.ID, trigger domain.Trigger, transactionID *string) (*TransitionResult, error) {
	var order *domain.Order

	for attempt := 0; attempt < 2; attempt++ {
		var err error
		order, err = uc.orderRepository.FindByID(ctx, orderID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find order")
		}
		if order == nil {
			return nil, errors.Wrapf(domain.ErrOrderNotFound, "order %s", orderID)
		}

		next, ok := domain.NextStatus(order.Status, trigger)
		if !ok {
			slog.InfoContext(ctx, "transition skipped, precondition no longer holds",
				"order_id", orderID.String(),
				"trigger", string(trigger),
				"status", string(order.Status))
			uc.recordTransition(ctx, trigger, false)
			return &TransitionResult{Applied: false, NewStatus: order.Status, Order: order}, nil
		}

		applied, err := uc.orderRepository.UpdateStatus(ctx, orderID, order.Status, next, transactionID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to update order status")
		}

		if applied {
			slog.InfoContext(ctx, "order transitioned",
				"order_id", orderID.String(),
				"trigger", string(trigger),
				"from", string(order.Status),
				"to", string(next))
			uc.recordTransition(ctx, trigger, true)
			return &TransitionResult{Applied: true, NewStatus: next, Order: order}, nil
		}

		// Lost the race against a concurrent trigger. Re-read and try once
		// more; if the precondition is gone by then, the loop above no-ops.
	}

	uc.recordTransition(ctx, trigger, false)
	return &TransitionResult{Applied: false, NewStatus: order.Status, Order: order}, nil
}

func (uc *ApplyTransition) recordTransition(ctx context.Context, trigger domain.Trigger, applied bool) {
	telemetry.RecordCounter(ctx, "order_transitions_total", "Order status transitions", 1,
		attribute.String("trigger", string(trigger)),
		attribute.Bool("applied", applied),
	)
}
