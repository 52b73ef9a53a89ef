// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/shopsphere/internal/config"
	"github.com/your-org/shopsphere/internal/interfaces/http/handlers"
	"github.com/your-org/shopsphere/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg)
	productHandler := handlers.NewProductHandler(db, redisClient, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	v1 := router.Group("/api/v1")

	// Public authentication routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), authHandler.GetProfile)
	}

	// Public catalog routes
	products := v1.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/recommended", productHandler.GetRecommendedProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:slug", categoryHandler.GetCategory)
		categories.POST("/:slug/like", categoryHandler.LikeCategory)
	}

	// Cart routes serve both authenticated and anonymous shoppers;
	// optional auth decides which cart backs the request
	cartRoutes := v1.Group("/cart")
	cartRoutes.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
		cartRoutes.POST("/items", cartHandler.AddToCart)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.POST("/categories/:slug/pages", categoryHandler.CreatePage)
	}
}
