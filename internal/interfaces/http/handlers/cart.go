// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/shopsphere/internal/config"
	"github.com/your-org/shopsphere/internal/domain/cart"
	"github.com/your-org/shopsphere/internal/domain/catalog"
	"github.com/your-org/shopsphere/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. The same routes serve both cart
// representations: authenticated requests get the user's durable cart,
// anonymous requests get the session cart behind the cookie.
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalog.NewService(db, cfg, cartService),
		config:         cfg,
	}
}

// AddToCartRequest represents add to cart request. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartSummary is the view rendered after every cart read or mutation
type CartSummary struct {
	Items  []cart.Line `json:"items"`
	Totals cart.Totals `json:"totals"`
}

// cartFor resolves the active cart engine for this request
func (h *CartHandler) cartFor(c *gin.Context) (cart.Cart, error) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return h.cartService.ForUser(c.Request.Context(), userID)
	}
	return h.cartService.ForSession(h.getOrCreateSessionID(c)), nil
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	engine, err := h.cartFor(c)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	h.respondSummary(c, engine, "Cart retrieved successfully")
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be at least 1",
		})
		return
	}

	// Product lookup happens here, before the engine is touched;
	// an unknown product means "cannot add"
	product, err := h.catalogService.FindProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	engine, err := h.cartFor(c)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	if err := engine.Add(c.Request.Context(), product, req.Quantity); err != nil {
		h.respondCartError(c, err)
		return
	}

	h.respondSummary(c, engine, "Item added to cart successfully")
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	engine, err := h.cartFor(c)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	// Removing a product that is not in the cart is a no-op
	if err := engine.Remove(c.Request.Context(), uint(productID)); err != nil {
		h.respondCartError(c, err)
		return
	}

	h.respondSummary(c, engine, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	engine, err := h.cartFor(c)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	if err := engine.Clear(c.Request.Context()); err != nil {
		h.respondCartError(c, err)
		return
	}

	h.respondSummary(c, engine, "Cart cleared successfully")
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	engine, err := h.cartFor(c)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	totals, err := engine.Totals(c.Request.Context())
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": totals.TotalCount,
		},
	})
}

// respondSummary answers every cart action with the refreshed summary view
func (h *CartHandler) respondSummary(c *gin.Context, engine cart.Cart, message string) {
	lines, err := engine.Lines(c.Request.Context())
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	totals, err := engine.Totals(c.Request.Context())
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": CartSummary{
			Items:  lines,
			Totals: totals,
		},
	})
}

func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrNilProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": "No cart provisioned for this account"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}

// getOrCreateSessionID gets the session ID from the cookie or creates one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	cookieName := h.config.Session.CookieName

	sessionID, err := c.Cookie(cookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(cookieName, sessionID, int(h.config.Session.TTL.Seconds()), "/", "", false, true)
	}

	return sessionID
}
