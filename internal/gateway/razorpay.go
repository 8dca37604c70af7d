// Package gateway wraps the Razorpay SDK behind a narrow interface: the rest
// of the application only ever creates a gateway order and receives a payment
// identifier back through the client-side success callback.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// ErrGateway wraps failures returned by the payment provider.
var ErrGateway = errors.New("payment gateway request failed")

// Order is the subset of the gateway order object the application uses.
// Amount is in minor currency units (paise).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client creates payment sessions with the hosted gateway.
type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error)
}

type razorpayClient struct {
	client *razorpay.Client
}

// NewRazorpayClient creates a gateway client authenticated with the given
// key pair.
func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder opens a gateway order for the given amount in minor units. The
// receipt is a locally generated unique reference, as the dashboard requires
// one per order.
func (c *razorpayClient) CreateOrder(_ context.Context, amount int64, currency string) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrGateway, amount)
	}
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  "receipt_order_" + uuid.NewString(),
	}
	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	order := &Order{Amount: amount, Currency: currency}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if receipt, ok := body["receipt"].(string); ok {
		order.Receipt = receipt
	}
	if orderStatus, ok := body["status"].(string); ok {
		order.Status = orderStatus
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: response missing order id", ErrGateway)
	}
	return order, nil
}
