package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Creation failures are distinguishable so a caller can tell "try a different
// product" from "try again later".
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrValidationTimeout  = errors.New("order validation timed out")
	ErrGatewayUnavailable = errors.New("validation gateway unavailable")
)

// ProductNotFoundError identifies the single product that failed validation.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}
