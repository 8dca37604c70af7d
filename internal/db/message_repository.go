package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

const contactMessagesCollection = "contactMessages"

// firestoreMessageRepository implements MessageRepository using Firestore.
type firestoreMessageRepository struct {
	client *firestore.Client
}

// NewFirestoreMessageRepository creates a new instance of firestoreMessageRepository.
func NewFirestoreMessageRepository(client *firestore.Client) MessageRepository {
	return &firestoreMessageRepository{client: client}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *models.ContactMessage) (string, error) {
	docRef := r.client.Collection(contactMessagesCollection).NewDoc()
	message.ID = docRef.ID
	if _, err := docRef.Create(ctx, message); err != nil {
		return "", fmt.Errorf("failed to create contact message: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreMessageRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	iter := r.client.Collection(contactMessagesCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var messages []*models.ContactMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
		}
		var message models.ContactMessage
		if err := doc.DataTo(&message); err != nil {
			return nil, fmt.Errorf("failed to decode contact message (ID: %s): %w", doc.Ref.ID, err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}
	return messages, nil
}

func (r *firestoreMessageRepository) MarkRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("messageID cannot be empty")
	}
	_, err := r.client.Collection(contactMessagesCollection).Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("contact message '%s': %w", messageID, ErrNotFound)
		}
		return fmt.Errorf("failed to mark contact message '%s' read: %w", messageID, err)
	}
	return nil
}

func (r *firestoreMessageRepository) Delete(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("messageID cannot be empty")
	}
	_, err := r.client.Collection(contactMessagesCollection).Doc(messageID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete contact message '%s': %w", messageID, err)
	}
	return nil
}
