package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

const reviewsSubcollection = "reviews"

// firestoreReviewRepository implements ReviewRepository on the
// products/{id}/reviews subcollection.
type firestoreReviewRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRepository creates a new instance of firestoreReviewRepository.
func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	return &firestoreReviewRepository{client: client}
}

func (r *firestoreReviewRepository) reviewsRef(productID string) *firestore.CollectionRef {
	return r.client.Collection(productsCollection).Doc(productID).Collection(reviewsSubcollection)
}

func (r *firestoreReviewRepository) List(ctx context.Context, productID string) ([]*models.Review, error) {
	if productID == "" {
		return nil, errors.New("productID cannot be empty")
	}
	iter := r.reviewsRef(productID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var reviews []*models.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate reviews for product '%s': %w", productID, err)
		}
		var review models.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review (ID: %s): %w", doc.Ref.ID, err)
		}
		review.ID = doc.Ref.ID
		reviews = append(reviews, &review)
	}
	return reviews, nil
}

func (r *firestoreReviewRepository) Create(ctx context.Context, productID string, review *models.Review) (string, error) {
	if productID == "" {
		return "", errors.New("productID cannot be empty")
	}
	docRef := r.reviewsRef(productID).NewDoc()
	review.ID = docRef.ID
	if _, err := docRef.Create(ctx, review); err != nil {
		return "", fmt.Errorf("failed to create review for product '%s': %w", productID, err)
	}
	return docRef.ID, nil
}

func (r *firestoreReviewRepository) HasUserReview(ctx context.Context, productID, userID string) (bool, error) {
	if productID == "" || userID == "" {
		return false, errors.New("productID and userID cannot be empty")
	}
	iter := r.reviewsRef(productID).Where("userId", "==", userID).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query reviews by user '%s': %w", userID, err)
	}
	return true, nil
}
