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

const productsCollection = "products"

// firestoreProductRepository implements ProductRepository using Firestore.
type firestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new instance of firestoreProductRepository.
func NewFirestoreProductRepository(client *firestore.Client) ProductRepository {
	return &firestoreProductRepository{client: client}
}

func (r *firestoreProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	iter := r.client.Collection(productsCollection).Documents(ctx)
	defer iter.Stop()

	var products []*models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}
		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, fmt.Errorf("failed to decode product (ID: %s): %w", doc.Ref.ID, err)
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}
	return products, nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, errors.New("productID cannot be empty")
	}
	docSnap, err := r.client.Collection(productsCollection).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("product '%s': %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", productID, err)
	}
	var product models.Product
	if err := docSnap.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product '%s': %w", productID, err)
	}
	product.ID = docSnap.Ref.ID
	return &product, nil
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	docRef := r.client.Collection(productsCollection).NewDoc()
	product.ID = docRef.ID
	if _, err := docRef.Create(ctx, product); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return errors.New("product ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update product '%s': %w", product.ID, err)
	}
	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.New("productID cannot be empty")
	}
	_, err := r.client.Collection(productsCollection).Doc(productID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product '%s': %w", productID, err)
	}
	return nil
}
