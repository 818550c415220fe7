package orders

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound indicates the referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidTransition indicates the requested status change is not permitted
// from the order's current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ProductNotFoundError aborts a placement when a cart references an unknown
// product. Nothing is applied: validation happens before any write.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError aborts a placement when a requested quantity exceeds
// the product's current stock. It names the product and both quantities.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}
