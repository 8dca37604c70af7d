package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// CartHandler handles API endpoints related to the shopping cart.
type CartHandler struct {
	cartService core.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs core.CartService) *CartHandler {
	return &CartHandler{cartService: cs}
}

// mapCartErrorToStatus maps errors from core.CartService to HTTP status codes.
func mapCartErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrProductNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProductNotFound.Error()}
	case errors.Is(err, core.ErrCartItemNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCartItemNotFound.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	summary, err := h.cartService.Get(c.Request.Context(), userID.(string))
	if err != nil {
		mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	summary, err := h.cartService.Add(c.Request.Context(), userID.(string), req.ProductID)
	if err != nil {
		mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DecrementItem handles POST /cart/items/:productId/decrement
func (h *CartHandler) DecrementItem(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	summary, err := h.cartService.Decrement(c.Request.Context(), userID.(string), productID)
	if err != nil {
		mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product ID is required"})
		return
	}

	summary, err := h.cartService.Remove(c.Request.Context(), userID.(string), productID)
	if err != nil {
		mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID.(string)); err != nil {
		mapCartErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Cart cleared"})
}
