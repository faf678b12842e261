package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/events"
	"github.com/commercekit/order-system/shared/models"
	"github.com/commercekit/order-system/shared/telemetry"
	"github.com/pkg/errors"
)

// CreateOrderItem is a requested line item before validation
type CreateOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	UserID          string            `json:"user_id"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []CreateOrderItem `json:"items"`
	CorrelationID   string            `json:"-"`
}

// CreateOrderSaga is the synchronous entry point of the order fulfillment
// saga. It validates the user and every requested item against the remote
// services, persists the order in pending status and publishes the creation
// event. Validation is all-or-nothing: any single failure aborts the whole
// order before anything is persisted or published.
type CreateOrderSaga struct {
	orderRepository   domain.OrderRepository
	gateway           domain.ValidationGateway
	eventPublisher    events.Publisher
	validationTimeout time.Duration
}

// NewCreateOrderSaga creates a new CreateOrderSaga use case
func NewCreateOrderSaga(
	orderRepository domain.OrderRepository,
	gateway domain.ValidationGateway,
	eventPublisher events.Publisher,
	validationTimeout time.Duration,
) *CreateOrderSaga {
	if validationTimeout <= 0 {
		validationTimeout = 30 * time.Second
	}
	return &CreateOrderSaga{
		orderRepository:   orderRepository,
		gateway:           gateway,
		eventPublisher:    eventPublisher,
		validationTimeout: validationTimeout,
	}
}

// Execute executes the create order use case
func (uc *CreateOrderSaga) Execute(ctx context.Context, cmd *CreateOrderCommand) (*OrderDTO, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	userID, err := models.NewID(cmd.UserID)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidRequest, "invalid user ID")
	}

	items, err := uc.validateRequest(ctx, userID, cmd.Items)
	if err != nil {
		return nil, err
	}

	order, err := domain.CreateOrder(userID, cmd.ShippingAddress, items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	// The row must exist before the creation event is visible to anyone.
	if err := uc.orderRepository.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to save order")
	}

	orderEvents := order.Events()
	if cmd.CorrelationID != "" {
		for _, event := range orderEvents {
			event.WithCorrelationID(models.ID(cmd.CorrelationID))
		}
	}

	if err := uc.eventPublisher.Publish(ctx, orderEvents...); err != nil {
		// The order is already persisted in pending status; surface the
		// failure so the caller knows the saga did not start.
		return nil, errors.Wrap(err, "order persisted but failed to publish creation event")
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID.String(),
		"user_id", order.UserID.String(),
		"total_amount", order.TotalAmount.Amount,
		"items", len(order.Items))
	telemetry.RecordCounter(ctx, "orders_created_total", "Total orders created", 1)

	return toOrderDTO(order), nil
}

// validateRequest checks the user and prices every item, bounded by the
// validation deadline. The derived context only covers the remote calls:
// persistence and publication must not be cut short by it.
func (uc *CreateOrderSaga) validateRequest(ctx context.Context, userID models.ID, requested []CreateOrderItem) ([]domain.OrderItem, error) {
	vctx, cancel := context.WithTimeout(ctx, uc.validationTimeout)
	defer cancel()

	if err := uc.gateway.UserExists(vctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, uc.transientFailure(vctx, err, "failed to validate user")
	}

	items := make([]domain.OrderItem, 0, len(requested))
	for _, req := range requested {
		snapshot, err := uc.gateway.FetchProduct(vctx, req.ProductID)
		if err != nil {
			var notFound *domain.ProductNotFoundError
			if errors.As(err, &notFound) {
				return nil, err
			}
			return nil, uc.transientFailure(vctx, err, "failed to validate product "+req.ProductID)
		}

		items = append(items, domain.OrderItem{
			ProductID:   snapshot.ProductID,
			ProductName: snapshot.Name,
			Quantity:    req.Quantity,
			UnitPrice:   snapshot.Price,
		})
	}

	return items, nil
}

func (uc *CreateOrderSaga) transientFailure(ctx context.Context, cause error, msg string) error {
	slog.WarnContext(ctx, "order validation failed", "reason", msg, "error", cause)

	if errors.Is(cause, context.DeadlineExceeded) || ctx.Err() != nil {
		return errors.Wrap(domain.ErrValidationTimeout, msg)
	}
	return errors.Wrap(domain.ErrGatewayUnavailable, msg)
}

func (uc *CreateOrderSaga) validateCommand(cmd *CreateOrderCommand) error {
	if cmd.UserID == "" {
		return errors.Wrap(domain.ErrInvalidRequest, "user ID is required")
	}

	if cmd.ShippingAddress == "" {
		return errors.Wrap(domain.ErrInvalidRequest, "shipping address is required")
	}

	if len(cmd.Items) == 0 {
		return errors.Wrap(domain.ErrInvalidRequest, "order must contain at least one item")
	}

	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return errors.Wrap(domain.ErrInvalidRequest, "product ID is required")
		}
		if item.Quantity <= 0 {
			return errors.Wrapf(domain.ErrInvalidRequest, "quantity must be positive for product %s", item.ProductID)
		}
	}

	return nil
}
