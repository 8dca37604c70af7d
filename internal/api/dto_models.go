package api

import (
	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
)

// ErrorResponse is the standardized error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is used for operations that return no resource body.
type SuccessResponse struct {
	Message string `json:"message"`
}

// viewerFromContext builds the service-layer caller identity from the values
// the auth middleware placed in the Gin context. Authenticated is false when
// the request passed through OptionalToken without a token.
func viewerFromContext(c *gin.Context) core.Viewer {
	return core.Viewer{
		UserID:        c.GetString(middleware.ContextUserID),
		Email:         c.GetString(middleware.ContextUserEmail),
		Name:          c.GetString(middleware.ContextUserName),
		IsAdmin:       c.GetBool(middleware.ContextIsAdmin),
		Authenticated: c.GetBool(middleware.ContextAuthenticated),
	}
}
