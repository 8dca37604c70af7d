package db

import (
	"context"
	"errors"
	"time"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// ErrNotFound is returned by repositories when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrInsufficientStock is returned by the order commit when a product's
// remaining stock cannot cover the ordered quantity. The whole transaction is
// rolled back.
var ErrInsufficientStock = errors.New("insufficient product stock")

// ErrAlreadyExists is returned when creating a document whose ID is taken,
// e.g. a payment capture recorded twice.
var ErrAlreadyExists = errors.New("document already exists")

// UserRepository defines the interface for user profile storage.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// CartRepository defines the interface for per-user cart line storage. Lines
// are keyed by product ID, one line per product.
type CartRepository interface {
	List(ctx context.Context, userID string) ([]*models.CartItem, error)
	GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error)
	// Increment creates the line with quantity 1 or adds 1 to an existing
	// line, atomically per document.
	Increment(ctx context.Context, userID string, item *models.CartItem) error
	// Decrement subtracts 1 from an existing line. Callers delete instead
	// when the quantity would reach zero.
	Decrement(ctx context.Context, userID, productID string) error
	Delete(ctx context.Context, userID, productID string) error
	// Clear deletes every line for the user in a single batch.
	Clear(ctx context.Context, userID string) error
}

// AddressRepository defines the interface for shipping address storage.
type AddressRepository interface {
	Create(ctx context.Context, userID string, address *models.Address) (string, error)
	GetByID(ctx context.Context, userID, addressID string) (*models.Address, error)
	List(ctx context.Context, userID string) ([]*models.Address, error)
	Update(ctx context.Context, userID string, address *models.Address) error
	Delete(ctx context.Context, userID, addressID string) error
}

// OrderRepository defines the interface for order storage, including the
// atomic checkout commit.
type OrderRepository interface {
	// Commit atomically writes the order document, one item document per cart
	// line, a guarded stock decrement per product, and marks the payment
	// capture consumed. All-or-nothing: on any failure no write is applied.
	// Order and item IDs are generated and set on the passed structs.
	Commit(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*models.Order, error)
	ListItems(ctx context.Context, userID, orderID string) ([]*models.OrderItem, error)
	// HasPaidOrder reports whether the user has at least one order with
	// status "paid". Backs the purchase-verification gate.
	HasPaidOrder(ctx context.Context, userID string) (bool, error)
	UpdateStatus(ctx context.Context, userID, orderID string, status models.OrderStatus) error
}

// ProductRepository defines the interface for catalog storage.
type ProductRepository interface {
	List(ctx context.Context) ([]*models.Product, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (string, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
}

// ReviewRepository defines the interface for product review storage.
type ReviewRepository interface {
	List(ctx context.Context, productID string) ([]*models.Review, error)
	Create(ctx context.Context, productID string, review *models.Review) (string, error)
	HasUserReview(ctx context.Context, productID, userID string) (bool, error)
}

// TutorialRepository defines the interface for the tutorial content tree.
type TutorialRepository interface {
	ListChapters(ctx context.Context) ([]*models.TutorialChapter, error)
	GetChapter(ctx context.Context, chapterID string) (*models.TutorialChapter, error)
	CreateChapter(ctx context.Context, chapter *models.TutorialChapter) (string, error)
	UpdateChapter(ctx context.Context, chapter *models.TutorialChapter) error
	DeleteChapter(ctx context.Context, chapterID string) error
	CountTutorials(ctx context.Context, chapterID string) (int, error)
	ListTutorials(ctx context.Context, chapterID string) ([]*models.Tutorial, error)
	GetTutorial(ctx context.Context, chapterID, tutorialID string) (*models.Tutorial, error)
	CreateTutorial(ctx context.Context, chapterID string, tutorial *models.Tutorial) (string, error)
	UpdateTutorial(ctx context.Context, chapterID string, tutorial *models.Tutorial) error
	DeleteTutorial(ctx context.Context, chapterID, tutorialID string) error
}

// MessageRepository defines the interface for contact message storage.
type MessageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) (string, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, messageID string) error
	Delete(ctx context.Context, messageID string) error
}

// PaymentCaptureRepository defines the interface for the durable payment
// record written ahead of the order commit.
type PaymentCaptureRepository interface {
	// Create writes the capture, failing with ErrAlreadyExists if the payment
	// ID was recorded before.
	Create(ctx context.Context, capture *models.PaymentCapture) error
	GetByID(ctx context.Context, paymentID string) (*models.PaymentCapture, error)
	// ListStale returns captures still in "captured" state created before the
	// cutoff: payments taken whose order commit never completed.
	ListStale(ctx context.Context, cutoff time.Time) ([]*models.PaymentCapture, error)
	Flag(ctx context.Context, paymentID string) error
}
