package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

type stubCartService struct {
	summary *models.CartSummary
	err     error
}

func (s *stubCartService) Get(context.Context, string) (*models.CartSummary, error) {
	return s.summary, s.err
}

func (s *stubCartService) Add(context.Context, string, string) (*models.CartSummary, error) {
	return s.summary, s.err
}

func (s *stubCartService) Decrement(context.Context, string, string) (*models.CartSummary, error) {
	return s.summary, s.err
}

func (s *stubCartService) Remove(context.Context, string, string) (*models.CartSummary, error) {
	return s.summary, s.err
}

func (s *stubCartService) Clear(context.Context, string) error { return s.err }

// fakeAuth injects a fixed user identity the way the auth middleware does.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextAuthenticated, true)
		c.Next()
	}
}

func newCartRouter(svc core.CartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCartHandler(svc)
	group := router.Group("/cart", fakeAuth("user-1"))
	group.GET("", handler.GetCart)
	group.POST("/items", handler.AddItem)
	return router
}

func TestCartHandler_GetCart(t *testing.T) {
	svc := &stubCartService{summary: &models.CartSummary{
		Items:        []*models.CartItem{{ID: "kit-1", Name: "Starter Kit", Price: 1200, Quantity: 2}},
		CartCount:    2,
		CartSubtotal: 2400,
		ShippingCost: 100,
		CartTotal:    2500,
	}}
	router := newCartRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.CartSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 2500, got.CartTotal)
	assert.Len(t, got.Items, 1)
}

func TestCartHandler_AddItemRejectsBadPayload(t *testing.T) {
	router := newCartRouter(&stubCartService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_AddItemUnknownProduct(t *testing.T) {
	router := newCartRouter(&stubCartService{err: core.ErrProductNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productId":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
