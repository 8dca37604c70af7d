package middleware

import (
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/crabstertechnology/EZCirkit/internal/db"
)

// ErrorResponse is a local definition for sending standardized error
// messages. It mirrors the one in internal/api to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Context keys set by the auth middleware for downstream handlers.
const (
	ContextUserID        = "userID"
	ContextUserEmail     = "userEmail"
	ContextUserName      = "userDisplayName"
	ContextUserPhotoURL  = "userPhotoURL"
	ContextAuthenticated = "authenticated"
	ContextIsAdmin       = "isAdmin"
)

// AuthMiddleware provides Gin middleware for Firebase token authentication
// and the admin check backed by the profile document.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	userRepo           db.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It refuses a nil
// auth client because authenticated routes cannot work without it.
func NewAuthMiddleware(fbAuthClient *auth.Client, userRepo db.UserRepository) *AuthMiddleware {
	if fbAuthClient == nil {
		log.Fatal("CRITICAL_ERROR: Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient, userRepo: userRepo}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
// The second return is false when the header is missing or malformed.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// emailUnverified reports whether the token carries an explicit
// email_verified=false claim. Tokens without the claim (phone or anonymous
// providers) are not treated as unverified.
func emailUnverified(token *auth.Token) bool {
	verified, ok := token.Claims["email_verified"].(bool)
	return ok && !verified
}

func (m *AuthMiddleware) setClaims(c *gin.Context, token *auth.Token) {
	c.Set(ContextUserID, token.UID)
	c.Set(ContextAuthenticated, true)
	if email, ok := token.Claims["email"].(string); ok {
		c.Set(ContextUserEmail, email)
	}
	if name, ok := token.Claims["name"].(string); ok {
		c.Set(ContextUserName, name)
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		c.Set(ContextUserPhotoURL, picture)
	}
	c.Set(ContextIsAdmin, m.isAdmin(c, token.UID))
}

// isAdmin reads the admin flag from the profile document. The flag lives in
// the database, not in token claims, so granting or revoking admin takes
// effect on the next request. A missing or unreadable profile counts as
// non-admin.
func (m *AuthMiddleware) isAdmin(c *gin.Context, userID string) bool {
	if m.userRepo == nil {
		return false
	}
	user, err := m.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return user.IsAdmin
}

// VerifyToken verifies a Firebase ID token from the Authorization header and
// sets the caller's identity in the Gin context. Requests without a valid
// token are rejected with 401.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}
		if emailUnverified(token) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Email address is not verified"})
			return
		}

		m.setClaims(c, token)
		c.Next()
	}
}

// OptionalToken verifies the token when one is present but lets anonymous
// requests through. Used on endpoints that serve a reduced payload to
// unauthenticated viewers.
func (m *AuthMiddleware) OptionalToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			// A token was sent but is bad; reject rather than silently
			// downgrading the caller to anonymous.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}
		if emailUnverified(token) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Email address is not verified"})
			return
		}
		m.setClaims(c, token)
		c.Next()
	}
}

// RequireAdmin allows only users whose profile document carries isAdmin.
// Must be chained after VerifyToken, which resolves the flag from the
// database per request.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		c.Next()
	}
}
