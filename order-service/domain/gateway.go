package domain

import (
	"context"

	"github.com/commercekit/order-system/shared/models"
)

// ProductSnapshot is the name and price of a product as the catalog reported
// it at validation time.
type ProductSnapshot struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
}

// ValidationGateway checks remote identity and catalog services during order
// creation. Implementations carry the resilient-call semantics (timeout,
// bounded retry, circuit breaker); callers only see the outcome.
//
// UserExists returns nil when the user exists, ErrUserNotFound when the
// identity service says it does not, and a transient error otherwise.
// FetchProduct returns a *ProductNotFoundError when the catalog does not know
// the product.
type ValidationGateway interface {
	UserExists(ctx context.Context, userID models.ID) error
	FetchProduct(ctx context.Context, productID string) (*ProductSnapshot, error)
}
