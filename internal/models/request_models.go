package models

// AddToCartRequest adds one unit of a product to the caller's cart. Product
// name, price and image are read from the catalog server-side, never trusted
// from the client.
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// CreatePaymentSessionRequest opens a gateway order. Amount is in minor
// currency units (paise) and must be positive.
type CreatePaymentSessionRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency" binding:"required"`
}

// ConfirmCheckoutRequest finalizes a purchase after the gateway success
// callback delivered a payment ID.
type ConfirmCheckoutRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	AddressID string `json:"addressId" binding:"required"`
}

// CreateAddressRequest creates a shipping address.
type CreateAddressRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postalCode" binding:"required"`
	Country      string `json:"country" binding:"required"`
}

// UpdateAddressRequest updates an address. Pointer fields distinguish "not
// provided" from an explicit empty value.
type UpdateAddressRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postalCode"`
	Country      *string `json:"country"`
}

// CreateReviewRequest submits a product review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// CreateProductRequest creates a catalog entry (admin).
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Price         int64  `json:"price" binding:"required,gt=0"`
	OriginalPrice int64  `json:"originalPrice"`
	Description   string `json:"description"`
	Stock         int64  `json:"stock" binding:"min=0"`
	Image         string `json:"image" binding:"required"`
}

// UpdateProductRequest updates a catalog entry (admin).
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Price         *int64  `json:"price"`
	OriginalPrice *int64  `json:"originalPrice"`
	Description   *string `json:"description"`
	Stock         *int64  `json:"stock"`
	Image         *string `json:"image"`
}

// CreateChapterRequest creates a tutorial chapter (admin).
type CreateChapterRequest struct {
	Title string `json:"title" binding:"required"`
	Order int64  `json:"order"`
}

// UpdateChapterRequest updates a tutorial chapter (admin).
type UpdateChapterRequest struct {
	Title *string `json:"title"`
	Order *int64  `json:"order"`
}

// CreateTutorialRequest creates a tutorial inside a chapter (admin).
type CreateTutorialRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Level       TutorialLevel `json:"level" binding:"required"`
	Duration    string        `json:"duration"`
	ImageID     string        `json:"imageId"`
	VideoID     string        `json:"videoId"`
	Order       int64         `json:"order"`
	Code        string        `json:"code"`
	Transcript  string        `json:"transcript"`
	Notes       string        `json:"notes"`
}

// UpdateTutorialRequest updates a tutorial (admin).
type UpdateTutorialRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Level       *TutorialLevel `json:"level"`
	Duration    *string        `json:"duration"`
	ImageID     *string        `json:"imageId"`
	VideoID     *string        `json:"videoId"`
	Order       *int64         `json:"order"`
	Code        *string        `json:"code"`
	Transcript  *string        `json:"transcript"`
	Notes       *string        `json:"notes"`
}

// CreateContactMessageRequest submits the public contact form.
type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle (admin).
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// UpdateProfileRequest changes the caller's display name.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

// OrderCreatedEvent is published to the message queue after a successful
// order commit and consumed by the notification worker.
type OrderCreatedEvent struct {
	EventID   string `json:"eventId"`
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
	PaymentID string `json:"paymentId"`
}
