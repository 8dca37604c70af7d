package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// ErrMessageNotFound is returned for an unknown contact message ID.
var ErrMessageNotFound = errors.New("contact message not found")

// contactService implements the ContactService interface.
type contactService struct {
	messageRepo db.MessageRepository
}

// NewContactService creates a new ContactService instance.
func NewContactService(mr db.MessageRepository) ContactService {
	return &contactService{messageRepo: mr}
}

// Submit stores a contact form message for the admin inbox.
func (s *contactService) Submit(ctx context.Context, req models.CreateContactMessageRequest) (*models.ContactMessage, error) {
	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	id, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}
	message.ID = id
	return message, nil
}

// List returns every submitted message, newest first.
func (s *contactService) List(ctx context.Context) ([]*models.ContactMessage, error) {
	messages, err := s.messageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

// MarkRead flags a message as handled.
func (s *contactService) MarkRead(ctx context.Context, messageID string) error {
	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrMessageNotFound, messageID)
		}
		return fmt.Errorf("failed to mark message '%s' read: %w", messageID, err)
	}
	return nil
}

// Delete removes a message from the inbox.
func (s *contactService) Delete(ctx context.Context, messageID string) error {
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrMessageNotFound, messageID)
		}
		return fmt.Errorf("failed to delete message '%s': %w", messageID, err)
	}
	return nil
}
