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

// OrderHandler handles order listing for customers and the admin order
// dashboard.
type OrderHandler struct {
	orderService core.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os core.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// orderDetailResponse bundles an order with its item lines.
type orderDetailResponse struct {
	*models.Order
	Items []*models.OrderItem `json:"items"`
}

// mapOrderErrorToStatus maps errors from core.OrderService to HTTP status
// codes.
func mapOrderErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrOrderNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrOrderNotFound.Error()}
	case errors.Is(err, core.ErrInvalidOrderStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidOrderStatus.Error()}
	case errors.Is(err, core.ErrInvalidSortKey):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidSortKey.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListMyOrders handles GET /orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	orders, err := h.orderService.ListForUser(c.Request.Context(), userID.(string))
	if err != nil {
		mapOrderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetMyOrder handles GET /orders/:orderId
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	orderID := c.Param("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Order ID is required"})
		return
	}

	order, items, err := h.orderService.Get(c.Request.Context(), userID.(string), orderID)
	if err != nil {
		mapOrderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, orderDetailResponse{Order: order, Items: items})
}

// ListAllOrders handles GET /admin/orders
// Supports ?q= as a case-insensitive substring filter over order ID, owner
// name/email/ID and status, and ?sort= with one of date_desc (default),
// date_asc, total_desc, total_asc, status_asc, status_desc.
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context(), c.Query("q"), c.Query("sort"))
	if err != nil {
		mapOrderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /admin/orders/:userId/:orderId/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID := c.Param("userId")
	orderID := c.Param("orderId")
	if userID == "" || orderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID and Order ID are required"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), userID, orderID, req.Status); err != nil {
		mapOrderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Order status updated"})
}
