// internal/domain/cart/cart.go
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/shopsphere/internal/domain/catalog"
)

var (
	// ErrInvalidQuantity is returned when a mutation is attempted with a
	// quantity below one. The engines reject before touching storage.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

	// ErrNilProduct is returned when Add is called without a resolved product
	ErrNilProduct = errors.New("cart: product is required")

	// ErrCartNotFound is returned when a user has no provisioned cart.
	// Carts are created when the user account is created, never lazily.
	ErrCartNotFound = errors.New("cart: no cart provisioned for user")

	// ErrItemNotFound is returned by the store for lookups of absent items
	ErrItemNotFound = errors.New("cart: item not in cart")
)

// Line is one product-and-quantity entry as presented to callers
type Line struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Totals aggregates a cart. Count sums quantities, not distinct products.
type Totals struct {
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalCount int             `json:"total_count"`
}

// Cart is the shared contract behind both cart representations:
// the session-backed guest cart and the per-user persisted cart.
//
// Rules common to both engines:
//   - Add accumulates quantity for a product already in the cart
//   - Remove of an absent product is a no-op, not an error
//   - Lines returns entries in the order they were first added
//   - failed mutations leave the stored cart unchanged
type Cart interface {
	Add(ctx context.Context, product *catalog.Product, quantity int) error
	Remove(ctx context.Context, productID uint) error
	Clear(ctx context.Context) error
	Lines(ctx context.Context) ([]Line, error)
	Totals(ctx context.Context) (Totals, error)
}

// sumLines folds lines into totals using exact decimal arithmetic
func sumLines(lines []Line) Totals {
	totals := Totals{TotalPrice: decimal.Zero}
	for _, line := range lines {
		totals.TotalPrice = totals.TotalPrice.Add(line.LineTotal)
		totals.TotalCount += line.Quantity
	}
	return totals
}
