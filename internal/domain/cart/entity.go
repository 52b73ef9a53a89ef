// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// UserCart is the persisted cart row. Exactly one exists per user,
// created when the account is created and enforced by the unique index.
type UserCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem is a persisted line item. It carries no price: pricing is
// always re-read from the live product so totals follow the catalog.
// Removal deletes the row; a quantity of zero is never stored.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (UserCart) TableName() string { return "carts" }
func (CartItem) TableName() string { return "cart_items" }
