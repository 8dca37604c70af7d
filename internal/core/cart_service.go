package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// Custom errors for the CartService
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// cartService implements the CartService interface.
type cartService struct {
	cartRepo    db.CartRepository
	productRepo db.ProductRepository
	// shippingCost is a flat per-order charge applied to non-empty carts.
	shippingCost int64
}

// NewCartService creates a new CartService instance.
func NewCartService(cr db.CartRepository, pr db.ProductRepository, shippingCost int64) CartService {
	return &cartService{
		cartRepo:     cr,
		productRepo:  pr,
		shippingCost: shippingCost,
	}
}

// summarize computes the derived cart values from the raw lines. An empty
// cart carries no shipping cost.
func (s *cartService) summarize(items []*models.CartItem) *models.CartSummary {
	summary := &models.CartSummary{Items: items}
	if summary.Items == nil {
		summary.Items = []*models.CartItem{}
	}
	for _, item := range items {
		summary.CartCount += item.Quantity
		summary.CartSubtotal += item.Price * item.Quantity
	}
	if len(items) > 0 {
		summary.ShippingCost = s.shippingCost
	}
	summary.CartTotal = summary.CartSubtotal + summary.ShippingCost
	return summary
}

// Get returns the caller's cart with its derived totals.
func (s *cartService) Get(ctx context.Context, userID string) (*models.CartSummary, error) {
	items, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user '%s': %w", userID, err)
	}
	return s.summarize(items), nil
}

// Add puts one unit of the product into the cart, incrementing the existing
// line when the product is already there. The line snapshot (name, price,
// image) always comes from the catalog, never from the client.
func (s *cartService) Add(ctx context.Context, userID, productID string) (*models.CartSummary, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", productID, err)
	}

	line := &models.CartItem{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Image: product.Image,
	}
	if err := s.cartRepo.Increment(ctx, userID, line); err != nil {
		return nil, fmt.Errorf("failed to add product '%s' to cart: %w", productID, err)
	}
	return s.Get(ctx, userID)
}

// Decrement removes one unit of the product. When the quantity would reach
// zero the whole line is deleted instead, so quantities never go below one.
// Decrementing a line that is not in the cart is a no-op.
func (s *cartService) Decrement(ctx context.Context, userID, productID string) (*models.CartSummary, error) {
	item, err := s.cartRepo.GetItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return s.Get(ctx, userID)
		}
		return nil, fmt.Errorf("failed to get cart item '%s': %w", productID, err)
	}

	if item.Quantity <= 1 {
		err = s.cartRepo.Delete(ctx, userID, productID)
	} else {
		err = s.cartRepo.Decrement(ctx, userID, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decrement cart item '%s': %w", productID, err)
	}
	return s.Get(ctx, userID)
}

// Remove deletes the whole line regardless of quantity.
func (s *cartService) Remove(ctx context.Context, userID, productID string) (*models.CartSummary, error) {
	if _, err := s.cartRepo.GetItem(ctx, userID, productID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrCartItemNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get cart item '%s': %w", productID, err)
	}
	if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item '%s': %w", productID, err)
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart for user '%s': %w", userID, err)
	}
	return nil
}
