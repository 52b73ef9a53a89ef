// internal/domain/cart/durable_test.go
package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopsphere/internal/config"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateForUser(ctx context.Context, userID uint) (*UserCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserCart), args.Error(1)
}

func (m *mockStore) ForUser(ctx context.Context, userID uint) (*UserCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserCart), args.Error(1)
}

func (m *mockStore) FindItem(ctx context.Context, cartID, productID uint) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *mockStore) SaveItem(ctx context.Context, item *CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockStore) DeleteItem(ctx context.Context, cartID, productID uint) (bool, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ClearItems(ctx context.Context, cartID uint) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *mockStore) Lines(ctx context.Context, cartID uint) ([]Line, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Line), args.Error(1)
}

func (m *mockStore) PurgeProduct(ctx context.Context, productID uint) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func liveLine(productID uint, name, unitPrice string, quantity int) Line {
	price := decimal.RequireFromString(unitPrice)
	return Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		LineTotal: price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func TestDurableAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a new line item", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		store.On("FindItem", ctx, uint(7), uint(1)).Return(nil, ErrItemNotFound).Once()
		store.On("SaveItem", ctx, &CartItem{CartID: 7, ProductID: 1, Quantity: 2}).Return(nil).Once()

		require.NoError(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 2))
		store.AssertExpectations(t)
	})

	t.Run("increments an existing line instead of duplicating it", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		existing := &CartItem{ID: 11, CartID: 7, ProductID: 1, Quantity: 2}
		store.On("FindItem", ctx, uint(7), uint(1)).Return(existing, nil).Once()
		store.On("SaveItem", ctx, mock.MatchedBy(func(item *CartItem) bool {
			return item.ID == 11 && item.Quantity == 5
		})).Return(nil).Once()

		require.NoError(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 3))
		store.AssertExpectations(t)
	})

	t.Run("rejects contract violations before touching the store", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		assert.ErrorIs(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 0), ErrInvalidQuantity)
		assert.ErrorIs(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), -3), ErrInvalidQuantity)
		assert.ErrorIs(t, engine.Add(ctx, nil, 1), ErrNilProduct)
		store.AssertExpectations(t)
	})
}

func TestDurableRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing item", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		store.On("DeleteItem", ctx, uint(7), uint(1)).Return(true, nil).Once()

		require.NoError(t, engine.Remove(ctx, 1))
		store.AssertExpectations(t)
	})

	t.Run("absent item is a no-op, not an error", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		store.On("DeleteItem", ctx, uint(7), uint(42)).Return(false, nil).Twice()

		require.NoError(t, engine.Remove(ctx, 42))
		require.NoError(t, engine.Remove(ctx, 42))
		store.AssertExpectations(t)
	})
}

func TestDurableTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("totals follow the product's current price", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		// Added at 10.00, repriced to 12.00 in the catalog since
		store.On("Lines", ctx, uint(7)).
			Return([]Line{liveLine(1, "Widget", "12.00", 1)}, nil).Once()

		totals, err := engine.Totals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("12.00")),
			"got %s", totals.TotalPrice)
		assert.Equal(t, 1, totals.TotalCount)
		store.AssertExpectations(t)
	})

	t.Run("deleted products drop out of lines and totals", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		// The store's join excludes deleted products; only B remains
		store.On("Lines", ctx, uint(7)).
			Return([]Line{liveLine(2, "B", "5.50", 2)}, nil).Once()

		totals, err := engine.Totals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("11.00")))
		assert.Equal(t, 2, totals.TotalCount)
	})

	t.Run("empty cart totals to zero", func(t *testing.T) {
		store := &mockStore{}
		engine := NewDurable(store, 7)

		store.On("Lines", ctx, uint(7)).Return([]Line{}, nil).Once()

		totals, err := engine.Totals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPrice.IsZero())
		assert.Equal(t, 0, totals.TotalCount)
	})
}

func TestServiceProvisioning(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}

	t.Run("provisioning is idempotent per user", func(t *testing.T) {
		store := &mockStore{}
		service := NewServiceWithStore(store, nil, cfg)

		provisioned := &UserCart{ID: 3, UserID: 9}
		store.On("CreateForUser", ctx, uint(9)).Return(provisioned, nil).Twice()

		require.NoError(t, service.ProvisionForUser(ctx, 9))
		require.NoError(t, service.ProvisionForUser(ctx, 9))
		store.AssertExpectations(t)
	})

	t.Run("unprovisioned user has no cart", func(t *testing.T) {
		store := &mockStore{}
		service := NewServiceWithStore(store, nil, cfg)

		store.On("ForUser", ctx, uint(9)).Return(nil, ErrCartNotFound).Once()

		engine, err := service.ForUser(ctx, 9)
		assert.ErrorIs(t, err, ErrCartNotFound)
		assert.Nil(t, engine)
		store.AssertExpectations(t)
	})

	t.Run("provisioned user gets the durable engine", func(t *testing.T) {
		store := &mockStore{}
		service := NewServiceWithStore(store, nil, cfg)

		store.On("ForUser", ctx, uint(9)).Return(&UserCart{ID: 3, UserID: 9}, nil).Once()

		engine, err := service.ForUser(ctx, 9)
		require.NoError(t, err)
		require.NotNil(t, engine)
		store.AssertExpectations(t)
	})
}
