package core

import (
	"context"

	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// Viewer identifies the caller of a service operation. Handlers build it from
// the verified ID token; Authenticated is false on public endpoints reached
// without a token.
type Viewer struct {
	UserID        string
	Email         string
	Name          string
	IsAdmin       bool
	Authenticated bool
}

// CartService manages the caller's shopping cart. Every mutation returns the
// resulting cart summary so clients never have to derive totals themselves.
type CartService interface {
	Get(ctx context.Context, userID string) (*models.CartSummary, error)
	Add(ctx context.Context, userID, productID string) (*models.CartSummary, error)
	Decrement(ctx context.Context, userID, productID string) (*models.CartSummary, error)
	Remove(ctx context.Context, userID, productID string) (*models.CartSummary, error)
	Clear(ctx context.Context, userID string) error
}

// CheckoutService runs the two payment phases: opening a gateway session
// before payment and converting a completed payment into an order afterwards.
type CheckoutService interface {
	CreatePaymentSession(ctx context.Context, amount int64, currency string) (*gateway.Order, error)
	Confirm(ctx context.Context, userID string, req models.ConfirmCheckoutRequest) (*models.Order, error)
}

// CatalogService serves the product catalog and its reviews.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID string, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListReviews(ctx context.Context, productID string) ([]*models.Review, error)
	CreateReview(ctx context.Context, viewer Viewer, productID string, req models.CreateReviewRequest) (*models.Review, error)
}

// OrderService reads and administers orders after checkout.
type OrderService interface {
	ListForUser(ctx context.Context, userID string) ([]*models.Order, error)
	Get(ctx context.Context, userID, orderID string) (*models.Order, []*models.OrderItem, error)
	// ListAll aggregates every user's orders for the admin view. filter is a
	// case-insensitive substring matched against order ID, owner name, owner
	// email, owner ID and status ("" means all); sortKey is one of date_desc,
	// date_asc, total_desc, total_asc, status_asc, status_desc.
	ListAll(ctx context.Context, filter string, sortKey string) ([]*models.AdminOrder, error)
	UpdateStatus(ctx context.Context, userID, orderID string, status models.OrderStatus) error
}

// AddressService manages the caller's shipping addresses.
type AddressService interface {
	List(ctx context.Context, userID string) ([]*models.Address, error)
	Get(ctx context.Context, userID, addressID string) (*models.Address, error)
	Create(ctx context.Context, userID string, req models.CreateAddressRequest) (*models.Address, error)
	Update(ctx context.Context, userID, addressID string, req models.UpdateAddressRequest) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

// TutorialService serves the tutorial tree with the purchase gate applied,
// plus the admin content management operations.
type TutorialService interface {
	Tree(ctx context.Context, viewer Viewer) (*models.TutorialTree, error)
	GetTutorial(ctx context.Context, viewer Viewer, chapterID, tutorialID string) (*models.Tutorial, error)
	CreateChapter(ctx context.Context, req models.CreateChapterRequest) (*models.TutorialChapter, error)
	UpdateChapter(ctx context.Context, chapterID string, req models.UpdateChapterRequest) (*models.TutorialChapter, error)
	DeleteChapter(ctx context.Context, chapterID string) error
	CreateTutorial(ctx context.Context, chapterID string, req models.CreateTutorialRequest) (*models.Tutorial, error)
	UpdateTutorial(ctx context.Context, chapterID, tutorialID string, req models.UpdateTutorialRequest) (*models.Tutorial, error)
	DeleteTutorial(ctx context.Context, chapterID, tutorialID string) error
}

// AccountService manages backend user profiles mirroring Firebase Auth
// accounts.
type AccountService interface {
	// Initialize returns the caller's profile, creating it from the token
	// claims on first sign-in.
	Initialize(ctx context.Context, viewer Viewer) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// ContactService handles the public contact form and the admin inbox.
type ContactService interface {
	Submit(ctx context.Context, req models.CreateContactMessageRequest) (*models.ContactMessage, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, messageID string) error
	Delete(ctx context.Context, messageID string) error
}

// ReconcileService sweeps payment captures that were taken but never turned
// into an order, flagging them for manual refund or completion.
type ReconcileService interface {
	// Run performs one sweep and returns how many captures were flagged.
	Run(ctx context.Context) (int, error)
}
