// internal/domain/catalog/category_service.go
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/shopsphere/internal/config"
	"gorm.io/gorm"
)

// CategoryService handles category and page business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// PageCreateRequest represents page creation data
type PageCreateRequest struct {
	Title string `json:"title" binding:"required,max=128"`
	URL   string `json:"url" binding:"required,url"`
}

// GetCategories retrieves all categories ordered by popularity
func (s *CategoryService) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.WithContext(ctx).
		Order("likes DESC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a category with its pages and records the view
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).
		Preload("Pages", func(db *gorm.DB) *gorm.DB {
			return db.Order("views DESC")
		}).
		Preload("Products").
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", category.ID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	category.Views++

	return &category, nil
}

// CreateCategory creates a new category with a slug derived from its name
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryCreateRequest) (*Category, error) {
	slug := generateSlug(req.Name)
	if slug == "" {
		return nil, fmt.Errorf("category name must contain letters or digits")
	}

	var existing Category
	if result := s.db.WithContext(ctx).Where("slug = ? OR name = ?", slug, req.Name).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("category with similar name already exists")
	}

	category := Category{
		Name: req.Name,
		Slug: slug,
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// LikeCategory increments a category's like counter
func (s *CategoryService) LikeCategory(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	err := s.db.WithContext(ctx).Model(&category).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		return nil, fmt.Errorf("failed to like category: %w", err)
	}
	category.Likes++

	return &category, nil
}

// CreatePage files a new page under the category identified by slug
func (s *CategoryService) CreatePage(ctx context.Context, categorySlug string, req *PageCreateRequest) (*Page, error) {
	var category Category
	if err := s.db.WithContext(ctx).Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	page := Page{
		CategoryID: category.ID,
		Title:      req.Title,
		URL:        req.URL,
	}

	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &page, nil
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)

// generateSlug generates a URL-friendly slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "-")
	return slug
}
