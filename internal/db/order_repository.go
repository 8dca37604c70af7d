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

const (
	ordersSubcollection     = "orders"
	orderItemsSubcollection = "items"
)

// firestoreOrderRepository implements OrderRepository on the
// users/{uid}/orders subcollection and its items sub-subcollection.
type firestoreOrderRepository struct {
	client *firestore.Client
}

// NewFirestoreOrderRepository creates a new instance of firestoreOrderRepository.
func NewFirestoreOrderRepository(client *firestore.Client) OrderRepository {
	return &firestoreOrderRepository{client: client}
}

func (r *firestoreOrderRepository) ordersRef(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(ordersSubcollection)
}

// Commit finalizes a checkout in one Firestore transaction: the order
// document, one item per cart line, a guarded stock decrement per product,
// and the payment capture flipped to consumed. Stock is read inside the
// transaction; if any product cannot cover its quantity the transaction
// returns ErrInsufficientStock and nothing is written.
func (r *firestoreOrderRepository) Commit(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	if order == nil || order.UserID == "" {
		return errors.New("order with userID is required")
	}
	if len(items) == 0 {
		return errors.New("order must contain at least one item")
	}

	orderRef := r.ordersRef(order.UserID).NewDoc()
	order.ID = orderRef.ID
	itemsRef := orderRef.Collection(orderItemsSubcollection)
	for _, item := range items {
		itemRef := itemsRef.NewDoc()
		item.ID = itemRef.ID
		item.OrderID = orderRef.ID
	}
	captureRef := r.client.Collection(paymentCapturesCollection).Doc(order.PaymentID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must precede writes in a Firestore transaction.
		type stockCheck struct {
			ref *firestore.DocumentRef
			qty int64
		}
		checks := make([]stockCheck, 0, len(items))
		for _, item := range items {
			productRef := r.client.Collection(productsCollection).Doc(item.ProductID)
			snap, err := tx.Get(productRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return fmt.Errorf("product '%s': %w", item.ProductID, ErrNotFound)
				}
				return fmt.Errorf("failed to read product '%s': %w", item.ProductID, err)
			}
			var product models.Product
			if err := snap.DataTo(&product); err != nil {
				return fmt.Errorf("failed to decode product '%s': %w", item.ProductID, err)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("product '%s' has %d in stock, %d requested: %w",
					item.ProductID, product.Stock, item.Quantity, ErrInsufficientStock)
			}
			checks = append(checks, stockCheck{ref: productRef, qty: item.Quantity})
		}

		if err := tx.Create(orderRef, order); err != nil {
			return fmt.Errorf("failed to create order document: %w", err)
		}
		for _, item := range items {
			if err := tx.Create(itemsRef.Doc(item.ID), item); err != nil {
				return fmt.Errorf("failed to create order item '%s': %w", item.ID, err)
			}
		}
		for _, check := range checks {
			if err := tx.Update(check.ref, []firestore.Update{
				{Path: "stock", Value: firestore.Increment(-check.qty)},
			}); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}
		if err := tx.Update(captureRef, []firestore.Update{
			{Path: "status", Value: string(models.CaptureStatusConsumed)},
			{Path: "orderId", Value: orderRef.ID},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return fmt.Errorf("failed to consume payment capture '%s': %w", order.PaymentID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("order commit failed for user '%s': %w", order.UserID, err)
	}
	return nil
}

func (r *firestoreOrderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	iter := r.ordersRef(userID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var orders []*models.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate orders for user '%s': %w", userID, err)
		}
		var order models.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, fmt.Errorf("failed to decode order (ID: %s): %w", doc.Ref.ID, err)
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	if userID == "" || orderID == "" {
		return nil, errors.New("userID and orderID cannot be empty")
	}
	docSnap, err := r.ordersRef(userID).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	var order models.Order
	if err := docSnap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order '%s': %w", orderID, err)
	}
	order.ID = docSnap.Ref.ID
	return &order, nil
}

func (r *firestoreOrderRepository) ListItems(ctx context.Context, userID, orderID string) ([]*models.OrderItem, error) {
	if userID == "" || orderID == "" {
		return nil, errors.New("userID and orderID cannot be empty")
	}
	iter := r.ordersRef(userID).Doc(orderID).Collection(orderItemsSubcollection).Documents(ctx)
	defer iter.Stop()

	var items []*models.OrderItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate items for order '%s': %w", orderID, err)
		}
		var item models.OrderItem
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode order item (ID: %s): %w", doc.Ref.ID, err)
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}
	return items, nil
}

// HasPaidOrder runs the purchase-verification query: any order with status
// "paid" grants access. Limit 1, existence is all that matters.
func (r *firestoreOrderRepository) HasPaidOrder(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, errors.New("userID cannot be empty")
	}
	iter := r.ordersRef(userID).
		Where("status", "==", string(models.OrderStatusPaid)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query paid orders for user '%s': %w", userID, err)
	}
	return true, nil
}

func (r *firestoreOrderRepository) UpdateStatus(ctx context.Context, userID, orderID string, orderStatus models.OrderStatus) error {
	if userID == "" || orderID == "" {
		return errors.New("userID and orderID cannot be empty")
	}
	_, err := r.ordersRef(userID).Doc(orderID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(orderStatus)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status of order '%s': %w", orderID, err)
	}
	return nil
}
