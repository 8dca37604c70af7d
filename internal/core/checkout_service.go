package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/models"
	"github.com/crabstertechnology/EZCirkit/pkg/messagequeue"
)

// Custom errors for the CheckoutService
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAddressNotFound    = errors.New("shipping address not found")
	ErrPaymentAlreadyUsed = errors.New("payment has already been used for an order")
	ErrInsufficientStock  = db.ErrInsufficientStock
)

// checkoutService implements the CheckoutService interface.
type checkoutService struct {
	cartService CartService
	cartRepo    db.CartRepository
	addressRepo db.AddressRepository
	orderRepo   db.OrderRepository
	captureRepo db.PaymentCaptureRepository
	gateway     gateway.Client
	queue       messagequeue.MessageQueue
	queueName   string
	currency    string
	logger      *zap.Logger
}

// NewCheckoutServiceConfig contains the dependencies of the checkout service.
// Queue may be nil, in which case order events are not published.
type NewCheckoutServiceConfig struct {
	CartService CartService
	CartRepo    db.CartRepository
	AddressRepo db.AddressRepository
	OrderRepo   db.OrderRepository
	CaptureRepo db.PaymentCaptureRepository
	Gateway     gateway.Client
	Queue       messagequeue.MessageQueue
	QueueName   string
	Currency    string
	Logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(cfg NewCheckoutServiceConfig) CheckoutService {
	return &checkoutService{
		cartService: cfg.CartService,
		cartRepo:    cfg.CartRepo,
		addressRepo: cfg.AddressRepo,
		orderRepo:   cfg.OrderRepo,
		captureRepo: cfg.CaptureRepo,
		gateway:     cfg.Gateway,
		queue:       cfg.Queue,
		queueName:   cfg.QueueName,
		currency:    cfg.Currency,
		logger:      cfg.Logger,
	}
}

// CreatePaymentSession opens a gateway order for the given amount in minor
// currency units. The caller pays against the returned order ID on the
// client and comes back with a payment ID for Confirm.
func (s *checkoutService) CreatePaymentSession(ctx context.Context, amount int64, currency string) (*gateway.Order, error) {
	if currency == "" {
		currency = s.currency
	}
	order, err := s.gateway.CreateOrder(ctx, amount, currency)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm turns a completed payment into an order. The payment ID is first
// recorded as a durable capture, then the order transaction consumes it
// together with the stock decrements. A capture that exists but is never
// consumed (the transaction failed) is left for the reconciliation sweep, so
// the payment is never silently lost. A retry with the same payment ID by the
// same shopper resumes from that unconsumed capture. The cart is cleared only
// after the transaction committed.
func (s *checkoutService) Confirm(ctx context.Context, userID string, req models.ConfirmCheckoutRequest) (*models.Order, error) {
	summary, err := s.cartService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addressRepo.GetByID(ctx, userID, req.AddressID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrAddressNotFound, req.AddressID)
		}
		return nil, fmt.Errorf("failed to get address '%s': %w", req.AddressID, err)
	}

	capture := &models.PaymentCapture{
		PaymentID: req.PaymentID,
		UserID:    userID,
		Amount:    summary.CartTotal,
		Currency:  s.currency,
		Status:    models.CaptureStatusCaptured,
	}
	if err := s.captureRepo.Create(ctx, capture); err != nil {
		if !errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to record payment capture '%s': %w", req.PaymentID, err)
		}
		// A capture already on record is a retry when it is still unconsumed
		// and owned by the same shopper: the previous attempt recorded the
		// payment but its order commit failed. Resume from the existing
		// capture rather than rejecting a payment no order ever used.
		existing, getErr := s.captureRepo.GetByID(ctx, req.PaymentID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to read payment capture '%s': %w", req.PaymentID, getErr)
		}
		if existing.UserID != userID || existing.Status != models.CaptureStatusCaptured {
			return nil, fmt.Errorf("%w: '%s'", ErrPaymentAlreadyUsed, req.PaymentID)
		}
		s.logger.Info("resuming checkout for unconsumed payment capture",
			zap.String("userId", userID),
			zap.String("paymentId", req.PaymentID))
	}

	order := &models.Order{
		UserID:          userID,
		Total:           summary.CartTotal,
		Status:          models.OrderStatusPaid,
		PaymentID:       req.PaymentID,
		ShippingAddress: *address,
	}
	items := make([]*models.OrderItem, 0, len(summary.Items))
	for _, line := range summary.Items {
		items = append(items, &models.OrderItem{
			ProductID: line.ID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Image:     line.Image,
		})
	}

	if err := s.orderRepo.Commit(ctx, order, items); err != nil {
		// The capture stays in "captured" state; reconciliation will flag it.
		if errors.Is(err, db.ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit order for payment '%s': %w", req.PaymentID, err)
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		// The order exists; a stale cart is recoverable, so log and move on.
		s.logger.Warn("order committed but cart clear failed",
			zap.String("userId", userID),
			zap.String("orderId", order.ID),
			zap.Error(err))
	}

	s.publishOrderCreated(order)
	return order, nil
}

func (s *checkoutService) publishOrderCreated(order *models.Order) {
	if s.queue == nil {
		return
	}
	event := models.OrderCreatedEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Currency:  s.currency,
		PaymentID: order.PaymentID,
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal order event", zap.String("orderId", order.ID), zap.Error(err))
		return
	}
	if err := s.queue.Publish(s.queueName, body); err != nil {
		s.logger.Error("failed to publish order event",
			zap.String("orderId", order.ID),
			zap.String("queue", s.queueName),
			zap.Error(err))
	}
}
