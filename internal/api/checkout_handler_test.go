package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

type stubCheckoutService struct {
	sessionOrder *gateway.Order
	sessionErr   error
	order        *models.Order
	confirmErr   error
}

func (s *stubCheckoutService) CreatePaymentSession(context.Context, int64, string) (*gateway.Order, error) {
	return s.sessionOrder, s.sessionErr
}

func (s *stubCheckoutService) Confirm(context.Context, string, models.ConfirmCheckoutRequest) (*models.Order, error) {
	return s.order, s.confirmErr
}

func newCheckoutRouter(svc *stubCheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCheckoutHandler(svc)
	router.POST("/payments/session", handler.CreatePaymentSession)
	return router
}

func TestCheckoutHandler_SessionGatewayFailure(t *testing.T) {
	svc := &stubCheckoutService{
		sessionErr: fmt.Errorf("%w: connection refused", gateway.ErrGateway),
	}
	router := newCheckoutRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/session",
		strings.NewReader(`{"amount":250000,"currency":"INR"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Payment gateway request failed")
}

func TestCheckoutHandler_SessionRejectsNonPositiveAmount(t *testing.T) {
	router := newCheckoutRouter(&stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/session",
		strings.NewReader(`{"amount":0,"currency":"INR"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
