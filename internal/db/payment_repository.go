package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

const paymentCapturesCollection = "paymentCaptures"

// firestorePaymentCaptureRepository implements PaymentCaptureRepository.
// Documents are keyed by the gateway payment ID, so Create doubles as the
// duplicate-payment guard.
type firestorePaymentCaptureRepository struct {
	client *firestore.Client
}

// NewFirestorePaymentCaptureRepository creates a new instance of
// firestorePaymentCaptureRepository.
func NewFirestorePaymentCaptureRepository(client *firestore.Client) PaymentCaptureRepository {
	return &firestorePaymentCaptureRepository{client: client}
}

func (r *firestorePaymentCaptureRepository) Create(ctx context.Context, capture *models.PaymentCapture) error {
	if capture == nil || capture.PaymentID == "" {
		return errors.New("capture with payment ID is required")
	}
	_, err := r.client.Collection(paymentCapturesCollection).Doc(capture.PaymentID).Create(ctx, capture)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("payment capture '%s': %w", capture.PaymentID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create payment capture '%s': %w", capture.PaymentID, err)
	}
	return nil
}

func (r *firestorePaymentCaptureRepository) GetByID(ctx context.Context, paymentID string) (*models.PaymentCapture, error) {
	if paymentID == "" {
		return nil, errors.New("paymentID cannot be empty")
	}
	docSnap, err := r.client.Collection(paymentCapturesCollection).Doc(paymentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("payment capture '%s': %w", paymentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment capture '%s': %w", paymentID, err)
	}
	var capture models.PaymentCapture
	if err := docSnap.DataTo(&capture); err != nil {
		return nil, fmt.Errorf("failed to decode payment capture '%s': %w", paymentID, err)
	}
	return &capture, nil
}

func (r *firestorePaymentCaptureRepository) ListStale(ctx context.Context, cutoff time.Time) ([]*models.PaymentCapture, error) {
	iter := r.client.Collection(paymentCapturesCollection).
		Where("status", "==", string(models.CaptureStatusCaptured)).
		Where("createdAt", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	var captures []*models.PaymentCapture
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate stale payment captures: %w", err)
		}
		var capture models.PaymentCapture
		if err := doc.DataTo(&capture); err != nil {
			return nil, fmt.Errorf("failed to decode payment capture (ID: %s): %w", doc.Ref.ID, err)
		}
		captures = append(captures, &capture)
	}
	return captures, nil
}

func (r *firestorePaymentCaptureRepository) Flag(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return errors.New("paymentID cannot be empty")
	}
	_, err := r.client.Collection(paymentCapturesCollection).Doc(paymentID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(models.CaptureStatusFlagged)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("payment capture '%s': %w", paymentID, ErrNotFound)
		}
		return fmt.Errorf("failed to flag payment capture '%s': %w", paymentID, err)
	}
	return nil
}
