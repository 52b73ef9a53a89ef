// internal/domain/cart/durable.go
package cart

import (
	"context"
	"errors"

	"github.com/your-org/shopsphere/internal/domain/catalog"
)

// Durable is the per-user persisted cart engine. Line items reference live
// products; prices are never snapshotted, so the same cart can total
// differently over time as the catalog changes.
type Durable struct {
	store  Store
	cartID uint
}

var _ Cart = (*Durable)(nil)

// NewDurable binds a durable engine to an existing cart row
func NewDurable(store Store, cartID uint) *Durable {
	return &Durable{
		store:  store,
		cartID: cartID,
	}
}

// Add puts quantity units of the product into the cart. An existing line
// has its quantity incremented; it is never overwritten.
func (d *Durable) Add(ctx context.Context, product *catalog.Product, quantity int) error {
	if product == nil {
		return ErrNilProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	item, err := d.store.FindItem(ctx, d.cartID, product.ID)
	if errors.Is(err, ErrItemNotFound) {
		return d.store.SaveItem(ctx, &CartItem{
			CartID:    d.cartID,
			ProductID: product.ID,
			Quantity:  quantity,
		})
	}
	if err != nil {
		return err
	}

	item.Quantity += quantity
	return d.store.SaveItem(ctx, item)
}

// Remove deletes the product's line item; absent products are a no-op
func (d *Durable) Remove(ctx context.Context, productID uint) error {
	_, err := d.store.DeleteItem(ctx, d.cartID, productID)
	return err
}

// Clear removes every line item from the cart
func (d *Durable) Clear(ctx context.Context) error {
	return d.store.ClearItems(ctx, d.cartID)
}

// Lines returns the line items priced at the products' current prices.
// Items whose product was deleted are gone from the view entirely.
func (d *Durable) Lines(ctx context.Context) ([]Line, error) {
	return d.store.Lines(ctx, d.cartID)
}

// Totals re-reads live prices and sums them exactly
func (d *Durable) Totals(ctx context.Context) (Totals, error) {
	lines, err := d.Lines(ctx)
	if err != nil {
		return Totals{}, err
	}
	return sumLines(lines), nil
}
