// internal/domain/cart/session.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/shopsphere/internal/domain/catalog"
)

const sessionKeyPrefix = "cart:session:"

// sessionItem is one stored guest line. Name and unit price are snapshots
// taken at add-time; the unit price serializes as a decimal string so no
// precision is lost on the round trip through Redis.
type sessionItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// sessionState is the JSON document stored per session. Items are kept as
// a slice so iteration is stable in insertion order.
type sessionState struct {
	SessionID string        `json:"session_id"`
	Items     []sessionItem `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// add accumulates quantity for a product already present, otherwise appends
// a new line snapshotting the product's current name and price
func (st *sessionState) add(product *catalog.Product, quantity int) {
	for i := range st.Items {
		if st.Items[i].ProductID == product.ID {
			st.Items[i].Quantity += quantity
			return
		}
	}
	st.Items = append(st.Items, sessionItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	})
}

// remove deletes the product's line if present and reports whether it did
func (st *sessionState) remove(productID uint) bool {
	for i := range st.Items {
		if st.Items[i].ProductID == productID {
			st.Items = append(st.Items[:i], st.Items[i+1:]...)
			return true
		}
	}
	return false
}

// lines converts the stored items into the presentation contract
func (st *sessionState) lines() []Line {
	lines := make([]Line, len(st.Items))
	for i, item := range st.Items {
		lines[i] = Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}
	return lines
}

// Session is the guest cart engine. State lives in Redis under the
// anonymous session ID and expires with the session TTL. Every mutating
// call writes the full document back synchronously; that single SET is the
// explicit persist step, so a mutation either lands completely or not at all.
type Session struct {
	rdb       *redis.Client
	sessionID string
	ttl       time.Duration
}

var _ Cart = (*Session)(nil)

// NewSession creates a guest cart engine bound to a session ID
func NewSession(rdb *redis.Client, sessionID string, ttl time.Duration) *Session {
	return &Session{
		rdb:       rdb,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (s *Session) key() string {
	return sessionKeyPrefix + s.sessionID
}

// load fetches the stored state, materializing an empty cart on first access
func (s *Session) load(ctx context.Context) (*sessionState, error) {
	if s.sessionID == "" {
		return nil, fmt.Errorf("cart: session ID required for guest cart")
	}

	data, err := s.rdb.Get(ctx, s.key()).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &sessionState{
			SessionID: s.sessionID,
			Items:     []sessionItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: failed to load session cart: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("cart: corrupt session cart: %w", err)
	}
	return &state, nil
}

// persist writes the state back and refreshes the session TTL
func (s *Session) persist(ctx context.Context, state *sessionState) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("cart: failed to encode session cart: %w", err)
	}

	if err := s.rdb.Set(ctx, s.key(), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("cart: failed to persist session cart: %w", err)
	}
	return nil
}

// Add puts quantity units of the product into the cart, snapshotting name
// and price for a new line. The write-back happens even when the product
// was already present: the quantity changed, so the store must too.
func (s *Session) Add(ctx context.Context, product *catalog.Product, quantity int) error {
	if product == nil {
		return ErrNilProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	state.add(product, quantity)
	return s.persist(ctx, state)
}

// Remove deletes the product's line. Removing an absent product is a no-op
// and skips the write-back since nothing changed.
func (s *Session) Remove(ctx context.Context, productID uint) error {
	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	if !state.remove(productID) {
		return nil
	}
	return s.persist(ctx, state)
}

// Clear replaces the stored cart with an empty one
func (s *Session) Clear(ctx context.Context) error {
	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	state.Items = []sessionItem{}
	return s.persist(ctx, state)
}

// Lines returns the snapshot-priced line items in insertion order
func (s *Session) Lines(ctx context.Context) ([]Line, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return state.lines(), nil
}

// Totals sums the snapshot prices; an empty or missing cart totals to zero
func (s *Session) Totals(ctx context.Context) (Totals, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return Totals{}, err
	}
	return sumLines(lines), nil
}
