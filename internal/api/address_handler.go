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

// AddressHandler handles the shipping address endpoints.
type AddressHandler struct {
	addressService core.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(as core.AddressService) *AddressHandler {
	return &AddressHandler{addressService: as}
}

func mapAddressErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrAddressNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrAddressNotFound.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListAddresses handles GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID.(string))
	if err != nil {
		mapAddressErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapAddressErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

// UpdateAddress handles PUT /addresses/:addressId
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	addressID := c.Param("addressId")
	if addressID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Address ID is required"})
		return
	}

	var req models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), userID.(string), addressID, req)
	if err != nil {
		mapAddressErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// DeleteAddress handles DELETE /addresses/:addressId
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	addressID := c.Param("addressId")
	if addressID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Address ID is required"})
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), userID.(string), addressID); err != nil {
		mapAddressErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Address deleted"})
}
