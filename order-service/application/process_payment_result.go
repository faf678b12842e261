package application

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

// ProcessPaymentResultCommand represents a payment processing outcome
type ProcessPaymentResultCommand struct {
	OrderID       models.ID
	Success       bool
	TransactionID string
	Message       string
	CorrelationID models.ID
}

// ProcessPaymentResult reacts to payment outcomes. A successful payment
// confirms the order and publishes the confirmation event; a failed one marks
// the order payment_failed. No remote rollback is attempted in either case:
// compensation is limited to the order's own status.
type ProcessPaymentResult struct {
	applyTransition *ApplyTransition
	eventPublisher  events.Publisher
}

// NewProcessPaymentResult creates a new ProcessPaymentResult use case
func NewProcessPaymentResult(
	applyTransition *ApplyTransition,
	eventPublisher events.Publisher,
) *ProcessPaymentResult {
	return &ProcessPaymentResult{
		applyTransition: applyTransition,
		eventPublisher:  eventPublisher,
	}
}

// Execute executes the process payment result use case
func (uc *ProcessPaymentResult) Execute(ctx context.Context, cmd *ProcessPaymentResultCommand) error {
	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	if !cmd.Success {
		result, err := uc.applyTransition.Execute(ctx, cmd.OrderID, domain.TriggerPaymentFailed, nil)
		if err != nil {
			return errors.Wrap(err, "failed to mark order payment_failed")
		}

		if result.Applied {
			slog.WarnContext(ctx, "order payment failed",
				"order_id", cmd.OrderID.String(),
				"reason", cmd.Message)
		}

		return nil
	}

	var transactionID *string
	if cmd.TransactionID != "" {
		transactionID = &cmd.TransactionID
	}

	result, err := uc.applyTransition.Execute(ctx, cmd.OrderID, domain.TriggerPaymentSucceeded, transactionID)
	if err != nil {
		return errors.Wrap(err, "failed to confirm order")
	}

	if !result.Applied {
		// Duplicate delivery or a competing trigger already settled the
		// order; the confirmation was (or will never be) published by the
		// winning delivery.
		return nil
	}

	// TODO: resolve the user's email via the identity gateway once it exposes
	// contact details; the confirmation event carries an empty address until
	// then.
	confirmed := events.NewEvent(cmd.OrderID, events.OrderConfirmedEvent, domain.OrderConfirmedData{
		OrderID:     cmd.OrderID,
		UserEmail:   "",
		TotalAmount: result.Order.TotalAmount,
	}).WithCorrelationID(cmd.CorrelationID)

	if err := uc.eventPublisher.Publish(ctx, confirmed); err != nil {
		return errors.Wrap(err, "order confirmed but failed to publish confirmation event")
	}

	slog.InfoContext(ctx, "order confirmed",
		"order_id", cmd.OrderID.String(),
		"transaction_id", cmd.TransactionID)

	return nil
}
