// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shopsphere/internal/domain/cart"
	"github.com/your-org/shopsphere/internal/domain/catalog"
	"github.com/your-org/shopsphere/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	// Dependency order: users and catalog before carts
	models := []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Page{},
		&catalog.Product{},
		&cart.UserCart{},
		&cart.CartItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_views ON products(category_id, views DESC)",
		"CREATE INDEX IF NOT EXISTS idx_categories_likes ON categories(likes DESC)",
		"CREATE INDEX IF NOT EXISTS idx_pages_category_views ON pages(category_id, views DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_product ON cart_items(product_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedInitialData populates a development database with an admin account
// and a small browsable catalog
func (m *Migration) SeedInitialData() error {
	var userCount int64
	m.db.Model(&user.User{}).Count(&userCount)
	if userCount > 0 {
		return nil // Already seeded
	}

	m.log.Info("Seeding initial data")

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin1234!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@shopsphere.local",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// The admin gets a cart like everyone else
	if err := m.db.Create(&cart.UserCart{UserID: admin.ID}).Error; err != nil {
		return fmt.Errorf("failed to seed admin cart: %w", err)
	}

	categories := []catalog.Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Books", Slug: "books"},
		{Name: "Clothing", Slug: "clothing"},
	}
	for i := range categories {
		if err := m.db.Create(&categories[i]).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", categories[i].Name, err)
		}
	}

	products := []catalog.Product{
		{Name: "Wireless Headphones", Description: "Over-ear, 30h battery", Price: decimal.RequireFromString("79.99"), Stock: 25, CategoryID: &categories[0].ID},
		{Name: "USB-C Charger", Description: "65W fast charger", Price: decimal.RequireFromString("24.50"), Stock: 100, CategoryID: &categories[0].ID},
		{Name: "The Go Programming Language", Description: "Donovan & Kernighan", Price: decimal.RequireFromString("39.95"), Stock: 12, CategoryID: &categories[1].ID},
		{Name: "Plain T-Shirt", Description: "100% cotton", Price: decimal.RequireFromString("9.99"), Stock: 200, CategoryID: &categories[2].ID},
	}
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}

	m.log.WithFields(logrus.Fields{
		"categories": len(categories),
		"products":   len(products),
	}).Info("Initial data seeded")

	return nil
}
