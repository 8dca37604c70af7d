package models

// CartItem is one line in users/{uid}/cart. The document ID is the product ID,
// so each product has at most one line and re-adding increments the quantity.
type CartItem struct {
	ID       string `json:"id" firestore:"id"` // Product ID
	Name     string `json:"name" firestore:"name"`
	Price    int64  `json:"price" firestore:"price"`
	Image    string `json:"image" firestore:"image"`
	Quantity int64  `json:"quantity" firestore:"quantity"`
}

// CartSummary is the cart plus its derived values, computed server-side so the
// invariants (count = sum of quantities, total = subtotal + shipping) hold in
// one place.
type CartSummary struct {
	Items        []*CartItem `json:"items"`
	CartCount    int64       `json:"cartCount"`
	CartSubtotal int64       `json:"cartSubtotal"`
	ShippingCost int64       `json:"shippingCost"`
	CartTotal    int64       `json:"cartTotal"`
}
