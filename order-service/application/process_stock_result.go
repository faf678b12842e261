package application

import (
	"context"
	"log/slog"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

// ProcessStockResultCommand represents a stock reservation outcome
type ProcessStockResultCommand struct {
	OrderID models.ID
	Success bool
	Message string
}

// ProcessStockResult reacts to stock reservation outcomes. A failed
// reservation cancels the order; a successful one needs no action here since
// the payment outcome completes the saga.
type ProcessStockResult struct {
	applyTransition *ApplyTransition
}

// NewProcessStockResult creates a new ProcessStockResult use case
func NewProcessStockResult(applyTransition *ApplyTransition) *ProcessStockResult {
	return &ProcessStockResult{applyTransition: applyTransition}
}

// Execute executes the process stock result use case
func (uc *ProcessStockResult) Execute(ctx context.Context, cmd *ProcessStockResultCommand) error {
	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}

	if cmd.Success {
		slog.InfoContext(ctx, "stock reserved for order", "order_id", cmd.OrderID.String())
		return nil
	}

	result, err := uc.applyTransition.Execute(ctx, cmd.OrderID, domain.TriggerStockRejected, nil)
	if err != nil {
		return errors.Wrap(err, "failed to cancel order after stock rejection")
	}

	if result.Applied {
		slog.WarnContext(ctx, "order cancelled, stock reservation failed",
			"order_id", cmd.OrderID.String(),
			"reason", cmd.Message)
	}

	return nil
}
