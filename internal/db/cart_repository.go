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

const cartSubcollection = "cart"

// firestoreCartRepository implements CartRepository on the users/{uid}/cart
// subcollection. Documents are keyed by product ID so a product has at most
// one line and concurrent adds resolve to commutative increments.
type firestoreCartRepository struct {
	client *firestore.Client
}

// NewFirestoreCartRepository creates a new instance of firestoreCartRepository.
func NewFirestoreCartRepository(client *firestore.Client) CartRepository {
	return &firestoreCartRepository{client: client}
}

func (r *firestoreCartRepository) cartRef(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(cartSubcollection)
}

func (r *firestoreCartRepository) List(ctx context.Context, userID string) ([]*models.CartItem, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	iter := r.cartRef(userID).Documents(ctx)
	defer iter.Stop()

	var items []*models.CartItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate cart for user '%s': %w", userID, err)
		}
		var item models.CartItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode cart line (ID: %s): %w", doc.Ref.ID, err)
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}
	return items, nil
}

func (r *firestoreCartRepository) GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	if userID == "" || productID == "" {
		return nil, errors.New("userID and productID cannot be empty")
	}
	docSnap, err := r.cartRef(userID).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("cart line '%s': %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line '%s': %w", productID, err)
	}
	var item models.CartItem
	if err := docSnap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode cart line '%s': %w", productID, err)
	}
	item.ID = docSnap.Ref.ID
	return &item, nil
}

// Increment merges static product fields and adds 1 to the quantity. The
// server applies the increment atomically per document, so two racing adds
// both land.
func (r *firestoreCartRepository) Increment(ctx context.Context, userID string, item *models.CartItem) error {
	if userID == "" || item == nil || item.ID == "" {
		return errors.New("userID and cart item with product ID are required")
	}
	_, err := r.cartRef(userID).Doc(item.ID).Set(ctx, map[string]interface{}{
		"id":       item.ID,
		"name":     item.Name,
		"price":    item.Price,
		"image":    item.Image,
		"quantity": firestore.Increment(1),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to increment cart line '%s' for user '%s': %w", item.ID, userID, err)
	}
	return nil
}

func (r *firestoreCartRepository) Decrement(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return errors.New("userID and productID cannot be empty")
	}
	_, err := r.cartRef(userID).Doc(productID).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: firestore.Increment(-1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("cart line '%s': %w", productID, ErrNotFound)
		}
		return fmt.Errorf("failed to decrement cart line '%s' for user '%s': %w", productID, userID, err)
	}
	return nil
}

func (r *firestoreCartRepository) Delete(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return errors.New("userID and productID cannot be empty")
	}
	_, err := r.cartRef(userID).Doc(productID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete cart line '%s' for user '%s': %w", productID, userID, err)
	}
	return nil
}

// Clear deletes all cart lines for the user in one write batch.
func (r *firestoreCartRepository) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty")
	}
	iter := r.cartRef(userID).Documents(ctx)
	defer iter.Stop()

	batch := r.client.Batch()
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate cart for clearing (user '%s'): %w", userID, err)
		}
		batch.Delete(doc.Ref)
		count++
	}
	if count == 0 {
		return nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to clear cart for user '%s': %w", userID, err)
	}
	return nil
}
