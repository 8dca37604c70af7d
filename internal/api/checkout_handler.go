package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// CheckoutHandler handles the payment session and checkout endpoints.
type CheckoutHandler struct {
	checkoutService core.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(cs core.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

// mapCheckoutErrorToStatus maps errors from core.CheckoutService to HTTP
// status codes.
func mapCheckoutErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrEmptyCart):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrEmptyCart.Error()}
	case errors.Is(err, core.ErrAddressNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrAddressNotFound.Error()}
	case errors.Is(err, core.ErrPaymentAlreadyUsed):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrPaymentAlreadyUsed.Error()}
	case errors.Is(err, core.ErrInsufficientStock):
		// 409 because the cart conflicts with the current stock state; the
		// client should refresh the cart and retry.
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrInsufficientStock.Error()}
	case errors.Is(err, gateway.ErrGateway):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Payment gateway request failed"}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreatePaymentSession handles POST /payments/session
// Public: the gateway order is opened before the shopper finishes signing
// in, and carries no account data.
func (h *CheckoutHandler) CreatePaymentSession(c *gin.Context) {
	var req models.CreatePaymentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	order, err := h.checkoutService.CreatePaymentSession(c.Request.Context(), req.Amount, req.Currency)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ConfirmCheckout handles POST /checkout/confirm
func (h *CheckoutHandler) ConfirmCheckout(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	order, err := h.checkoutService.Confirm(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
