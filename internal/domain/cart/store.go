// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the persistence boundary for the durable cart engine
type Store interface {
	// CreateForUser provisions a cart for the user. Calling it again for an
	// already-carted user returns the existing cart instead of a duplicate.
	CreateForUser(ctx context.Context, userID uint) (*UserCart, error)
	// ForUser returns the user's cart or ErrCartNotFound
	ForUser(ctx context.Context, userID uint) (*UserCart, error)
	// FindItem returns the line item for (cartID, productID) or ErrItemNotFound
	FindItem(ctx context.Context, cartID, productID uint) (*CartItem, error)
	// SaveItem inserts or updates a line item
	SaveItem(ctx context.Context, item *CartItem) error
	// DeleteItem removes the line item if present and reports whether it did
	DeleteItem(ctx context.Context, cartID, productID uint) (bool, error)
	// ClearItems removes every line item of the cart
	ClearItems(ctx context.Context, cartID uint) error
	// Lines returns the cart's line items joined against live products,
	// priced at the product's current price, in insertion order. Items
	// whose product has been deleted never appear.
	Lines(ctx context.Context, cartID uint) ([]Line, error)
	// PurgeProduct removes the product's line items from every cart
	PurgeProduct(ctx context.Context, productID uint) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates the gorm-backed cart store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateForUser(ctx context.Context, userID uint) (*UserCart, error) {
	var existing UserCart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up cart for user %d: %w", userID, err)
	}

	userCart := UserCart{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&userCart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for user %d: %w", userID, err)
	}
	return &userCart, nil
}

func (s *gormStore) ForUser(ctx context.Context, userID uint) (*UserCart, error) {
	var userCart UserCart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&userCart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart for user %d: %w", userID, err)
	}
	return &userCart, nil
}

func (s *gormStore) FindItem(ctx context.Context, cartID, productID uint) (*CartItem, error) {
	var item CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}
	return &item, nil
}

func (s *gormStore) SaveItem(ctx context.Context, item *CartItem) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteItem(ctx context.Context, cartID, productID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&CartItem{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) ClearItems(ctx context.Context, cartID uint) error {
	err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// lineRow scans the item/product join before line totals are computed
type lineRow struct {
	ProductID uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (s *gormStore) Lines(ctx context.Context, cartID uint) ([]Line, error) {
	var rows []lineRow
	err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id AS product_id, products.name AS name, products.price AS unit_price, cart_items.quantity AS quantity").
		Joins("INNER JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart lines: %w", err)
	}

	lines := make([]Line, len(rows))
	for i, row := range rows {
		lines[i] = Line{
			ProductID: row.ProductID,
			Name:      row.Name,
			UnitPrice: row.UnitPrice,
			Quantity:  row.Quantity,
			LineTotal: row.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity))),
		}
	}
	return lines, nil
}

func (s *gormStore) PurgeProduct(ctx context.Context, productID uint) error {
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to purge product %d from carts: %w", productID, err)
	}
	return nil
}
