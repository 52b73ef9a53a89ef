// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/shopsphere/internal/config"
	"gorm.io/gorm"
)

// CartPurger removes a deleted product's line items from every stored cart.
// Implemented by the cart service; wired at startup to avoid a package cycle.
type CartPurger interface {
	PurgeProduct(ctx context.Context, productID uint) error
}

// Service handles product catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	carts  CartPurger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config, carts CartPurger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		carts:  carts,
	}
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	Image       string          `json:"image"`
	CategoryID  *uint           `json:"category_id"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	CategoryID  *uint            `json:"category_id"`
}

// ProductListRequest represents product listing parameters
type ProductListRequest struct {
	Page       int   `form:"page"`
	Limit      int   `form:"limit"`
	CategoryID *uint `form:"category_id"`
}

// GetProducts retrieves a page of products
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) ([]Product, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Product{})
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	err := query.Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, total, nil
}

// GetProduct retrieves a single product by ID and records the view
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	// View counter is best-effort; a lost increment is acceptable
	s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	product.Views++

	return &product, nil
}

// FindProduct retrieves a product by ID without side effects.
// This is the lookup the cart uses before adding a line item.
func (s *Service) FindProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetRecommendedProducts returns the most viewed products
func (s *Service) GetRecommendedProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Order("views DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recommended products: %w", err)
	}

	return products, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	if req.CategoryID != nil {
		var category Category
		if err := s.db.WithContext(ctx).Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			return nil, fmt.Errorf("category not found")
		}
	}

	product := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &product, nil
}

// DeleteProduct removes a product and cascades into stored carts.
// Line items referencing the product are purged so no cart ever reports
// a total against a product that no longer exists.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	var product Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("product not found")
		}
		return fmt.Errorf("failed to retrieve product: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if s.carts != nil {
		if err := s.carts.PurgeProduct(ctx, id); err != nil {
			return fmt.Errorf("failed to purge cart items for product %d: %w", id, err)
		}
	}

	return nil
}
