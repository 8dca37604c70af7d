package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// ContactHandler handles the public contact form and the admin inbox.
type ContactHandler struct {
	contactService core.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(cs core.ContactService) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

func mapContactErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrMessageNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrMessageNotFound.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// SubmitMessage handles POST /contact
func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req models.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	message, err := h.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		mapContactErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages handles GET /admin/messages
func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.contactService.List(c.Request.Context())
	if err != nil {
		mapContactErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkMessageRead handles PATCH /admin/messages/:messageId/read
func (h *ContactHandler) MarkMessageRead(c *gin.Context) {
	messageID := c.Param("messageId")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message ID is required"})
		return
	}

	if err := h.contactService.MarkRead(c.Request.Context(), messageID); err != nil {
		mapContactErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Message marked read"})
}

// DeleteMessage handles DELETE /admin/messages/:messageId
func (h *ContactHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("messageId")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message ID is required"})
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), messageID); err != nil {
		mapContactErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Message deleted"})
}
