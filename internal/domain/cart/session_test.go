// internal/domain/cart/session_test.go
package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopsphere/internal/domain/catalog"
)

func testProduct(id uint, name, price string) *catalog.Product {
	return &catalog.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
}

func TestSessionStateAdd(t *testing.T) {
	t.Run("accumulates quantity for the same product", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}

		state.add(testProduct(1, "Widget", "9.99"), 2)
		state.add(testProduct(1, "Widget", "9.99"), 3)

		require.Len(t, state.Items, 1)
		assert.Equal(t, 5, state.Items[0].Quantity)
	})

	t.Run("snapshots name and price at add time", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}

		state.add(testProduct(1, "Widget", "9.99"), 1)

		require.Len(t, state.Items, 1)
		assert.Equal(t, "Widget", state.Items[0].Name)
		assert.True(t, state.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
	})

	t.Run("keeps insertion order across products", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}

		state.add(testProduct(3, "C", "1.00"), 1)
		state.add(testProduct(1, "A", "1.00"), 1)
		state.add(testProduct(2, "B", "1.00"), 1)
		state.add(testProduct(1, "A", "1.00"), 1)

		lines := state.lines()
		require.Len(t, lines, 3)
		assert.Equal(t, uint(3), lines[0].ProductID)
		assert.Equal(t, uint(1), lines[1].ProductID)
		assert.Equal(t, uint(2), lines[2].ProductID)
	})
}

func TestSessionStateRemove(t *testing.T) {
	t.Run("removal is idempotent", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}
		state.add(testProduct(1, "Widget", "9.99"), 2)

		assert.True(t, state.remove(1))
		assert.False(t, state.remove(1))
		assert.Empty(t, state.Items)
	})

	t.Run("removing an absent product changes nothing", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}
		state.add(testProduct(1, "Widget", "9.99"), 2)

		assert.False(t, state.remove(42))
		require.Len(t, state.Items, 1)
		assert.Equal(t, 2, state.Items[0].Quantity)
	})
}

func TestSessionStateTotals(t *testing.T) {
	t.Run("sums exact decimals", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}
		state.add(testProduct(1, "A", "10.00"), 2)
		state.add(testProduct(2, "B", "5.50"), 1)

		totals := sumLines(state.lines())
		assert.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("25.50")),
			"got %s", totals.TotalPrice)
		assert.Equal(t, 3, totals.TotalCount)
	})

	t.Run("empty cart totals to zero", func(t *testing.T) {
		state := &sessionState{SessionID: "s1"}

		totals := sumLines(state.lines())
		assert.True(t, totals.TotalPrice.IsZero())
		assert.Equal(t, 0, totals.TotalCount)
	})
}

// The full guest flow from the storefront: add, add again, check totals, remove.
func TestSessionStateScenario(t *testing.T) {
	state := &sessionState{SessionID: "s1"}
	widget := testProduct(1, "Widget", "9.99")

	state.add(widget, 1)
	state.add(widget, 2)

	lines := state.lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	totals := sumLines(lines)
	assert.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("29.97")),
		"got %s", totals.TotalPrice)
	assert.Equal(t, 3, totals.TotalCount)

	assert.True(t, state.remove(1))
	assert.Empty(t, state.lines())
	assert.True(t, sumLines(state.lines()).TotalPrice.IsZero())
}

func sessionJSON(t *testing.T, state *sessionState) string {
	t.Helper()
	data, err := json.Marshal(state)
	require.NoError(t, err)
	return string(data)
}

func TestSessionCartPersistence(t *testing.T) {
	ctx := context.Background()
	const key = "cart:session:sess-1"

	t.Run("cart is materialized lazily on first add", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		mock.ExpectGet(key).RedisNil()
		mock.Regexp().ExpectSet(key, `.*"product_id":1.*`, time.Hour).SetVal("OK")

		require.NoError(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add writes back even when the product already existed", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		stored := &sessionState{SessionID: "sess-1"}
		stored.add(testProduct(1, "Widget", "9.99"), 1)

		mock.ExpectGet(key).SetVal(sessionJSON(t, stored))
		mock.Regexp().ExpectSet(key, `.*"quantity":3.*`, time.Hour).SetVal("OK")

		require.NoError(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removing an absent product skips the write-back", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		stored := &sessionState{SessionID: "sess-1"}
		stored.add(testProduct(1, "Widget", "9.99"), 1)

		mock.ExpectGet(key).SetVal(sessionJSON(t, stored))
		// no SET expected

		require.NoError(t, engine.Remove(ctx, 42))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove persists when a deletion occurred", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		stored := &sessionState{SessionID: "sess-1"}
		stored.add(testProduct(1, "Widget", "9.99"), 1)

		mock.ExpectGet(key).SetVal(sessionJSON(t, stored))
		mock.Regexp().ExpectSet(key, `.*"items":\[\].*`, time.Hour).SetVal("OK")

		require.NoError(t, engine.Remove(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear always persists an empty mapping", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		stored := &sessionState{SessionID: "sess-1"}
		stored.add(testProduct(1, "Widget", "9.99"), 2)

		mock.ExpectGet(key).SetVal(sessionJSON(t, stored))
		mock.Regexp().ExpectSet(key, `.*"items":\[\].*`, time.Hour).SetVal("OK")

		require.NoError(t, engine.Clear(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("totals survive the decimal round trip through Redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		stored := &sessionState{SessionID: "sess-1"}
		stored.add(testProduct(1, "A", "10.00"), 2)
		stored.add(testProduct(2, "B", "5.50"), 1)

		mock.ExpectGet(key).SetVal(sessionJSON(t, stored))

		totals, err := engine.Totals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("25.50")),
			"got %s", totals.TotalPrice)
		assert.Equal(t, 3, totals.TotalCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("totals on a never-written session are zero", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		mock.ExpectGet(key).RedisNil()

		totals, err := engine.Totals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPrice.IsZero())
		assert.Equal(t, 0, totals.TotalCount)
	})

	t.Run("storage failure surfaces and leaves nothing half-written", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		mock.ExpectGet(key).SetErr(assert.AnError)

		err := engine.Add(ctx, testProduct(1, "Widget", "9.99"), 1)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid quantity is rejected before any storage access", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		engine := NewSession(rdb, "sess-1", time.Hour)

		assert.ErrorIs(t, engine.Add(ctx, testProduct(1, "Widget", "9.99"), 0), ErrInvalidQuantity)
		assert.ErrorIs(t, engine.Add(ctx, nil, 1), ErrNilProduct)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
