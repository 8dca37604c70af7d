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

const addressesSubcollection = "addresses"

// firestoreAddressRepository implements AddressRepository on the
// users/{uid}/addresses subcollection.
type firestoreAddressRepository struct {
	client *firestore.Client
}

// NewFirestoreAddressRepository creates a new instance of firestoreAddressRepository.
func NewFirestoreAddressRepository(client *firestore.Client) AddressRepository {
	return &firestoreAddressRepository{client: client}
}

func (r *firestoreAddressRepository) addressesRef(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(addressesSubcollection)
}

func (r *firestoreAddressRepository) Create(ctx context.Context, userID string, address *models.Address) (string, error) {
	if userID == "" {
		return "", errors.New("userID cannot be empty")
	}
	docRef := r.addressesRef(userID).NewDoc()
	address.ID = docRef.ID
	if _, err := docRef.Create(ctx, address); err != nil {
		return "", fmt.Errorf("failed to create address for user '%s': %w", userID, err)
	}
	return docRef.ID, nil
}

func (r *firestoreAddressRepository) GetByID(ctx context.Context, userID, addressID string) (*models.Address, error) {
	if userID == "" || addressID == "" {
		return nil, errors.New("userID and addressID cannot be empty")
	}
	docSnap, err := r.addressesRef(userID).Doc(addressID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("address '%s': %w", addressID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address '%s': %w", addressID, err)
	}
	var address models.Address
	if err := docSnap.DataTo(&address); err != nil {
		return nil, fmt.Errorf("failed to decode address '%s': %w", addressID, err)
	}
	address.ID = docSnap.Ref.ID
	return &address, nil
}

func (r *firestoreAddressRepository) List(ctx context.Context, userID string) ([]*models.Address, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	iter := r.addressesRef(userID).Documents(ctx)
	defer iter.Stop()

	var addresses []*models.Address
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate addresses for user '%s': %w", userID, err)
		}
		var address models.Address
		if err := doc.DataTo(&address); err != nil {
			return nil, fmt.Errorf("failed to decode address (ID: %s): %w", doc.Ref.ID, err)
		}
		address.ID = doc.Ref.ID
		addresses = append(addresses, &address)
	}
	return addresses, nil
}

func (r *firestoreAddressRepository) Update(ctx context.Context, userID string, address *models.Address) error {
	if userID == "" || address.ID == "" {
		return errors.New("userID and address ID cannot be empty for Update operation")
	}
	_, err := r.addressesRef(userID).Doc(address.ID).Set(ctx, address, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update address '%s': %w", address.ID, err)
	}
	return nil
}

func (r *firestoreAddressRepository) Delete(ctx context.Context, userID, addressID string) error {
	if userID == "" || addressID == "" {
		return errors.New("userID and addressID cannot be empty")
	}
	_, err := r.addressesRef(userID).Doc(addressID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete address '%s': %w", addressID, err)
	}
	return nil
}
