package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
	"github.com/crabstertechnology/EZCirkit/pkg/mailer"
	"github.com/crabstertechnology/EZCirkit/pkg/messagequeue"
)

// NotificationService consumes order events from the message queue and sends
// the confirmation email. It runs out of the request path so a slow or down
// SMTP server never delays checkout.
type NotificationService struct {
	userRepo db.UserRepository
	mailer   *mailer.Mailer
	queue    messagequeue.MessageQueue
	logger   *zap.Logger
}

// NewNotificationService creates a new NotificationService instance.
func NewNotificationService(ur db.UserRepository, m *mailer.Mailer, q messagequeue.MessageQueue, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		userRepo: ur,
		mailer:   m,
		queue:    q,
		logger:   logger,
	}
}

// Start begins consuming order events from the named queue.
func (s *NotificationService) Start(queueName string) error {
	return s.queue.Consume(queueName, s.handle)
}

func (s *NotificationService) handle(body []byte) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("discarding undecodable order event", zap.Error(err))
		return
	}
	if err := s.notify(context.Background(), event); err != nil {
		s.logger.Error("failed to send order confirmation",
			zap.String("orderId", event.OrderID),
			zap.String("userId", event.UserID),
			zap.Error(err))
	}
}

func (s *NotificationService) notify(ctx context.Context, event models.OrderCreatedEvent) error {
	user, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user '%s': %w", event.UserID, err)
	}
	if user.Email == "" {
		s.logger.Warn("user has no email address, skipping confirmation",
			zap.String("userId", event.UserID))
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("Order confirmed: %s", event.OrderID)
	bodyText := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Thanks for your purchase! Your order %s is confirmed.\r\n"+
			"Amount paid: %d %s (payment %s).\r\n\r\n"+
			"You can track the order from your account page.\r\n",
		name, event.OrderID, event.Total, event.Currency, event.PaymentID)

	if err := s.mailer.Send(user.Email, subject, bodyText); err != nil {
		return err
	}
	s.logger.Info("order confirmation sent",
		zap.String("orderId", event.OrderID),
		zap.String("userId", event.UserID))
	return nil
}
