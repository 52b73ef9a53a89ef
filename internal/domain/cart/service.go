// internal/domain/cart/service.go
package cart

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/shopsphere/internal/config"
	"gorm.io/gorm"
)

// Service hands out the right cart engine for a request: the durable
// engine for an authenticated user, the session engine for a guest.
// The two stores are deliberately never merged; logging in simply
// switches which representation is active.
type Service struct {
	store       Store
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		store:       NewStore(db),
		redisClient: redisClient,
		config:      cfg,
	}
}

// NewServiceWithStore creates a cart service over a custom store
func NewServiceWithStore(store Store, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		store:       store,
		redisClient: redisClient,
		config:      cfg,
	}
}

// ForUser returns the durable engine for the user's provisioned cart.
// Users are carted at account creation; a missing cart is ErrCartNotFound,
// not an invitation to create one here.
func (s *Service) ForUser(ctx context.Context, userID uint) (Cart, error) {
	userCart, err := s.store.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewDurable(s.store, userCart.ID), nil
}

// ForSession returns the guest engine bound to the anonymous session
func (s *Service) ForSession(sessionID string) Cart {
	return NewSession(s.redisClient, sessionID, s.config.Session.TTL)
}

// ProvisionForUser creates the user's durable cart. It is called by the
// user provisioning workflow right after the account row is created and
// is safe to call again for an already-carted user.
func (s *Service) ProvisionForUser(ctx context.Context, userID uint) error {
	_, err := s.store.CreateForUser(ctx, userID)
	return err
}

// PurgeProduct removes a deleted product's line items from every durable
// cart. The catalog service calls this when a product is deleted.
func (s *Service) PurgeProduct(ctx context.Context, productID uint) error {
	return s.store.PurgeProduct(ctx, productID)
}
