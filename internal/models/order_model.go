package models

import "time"

// OrderStatus is the lifecycle state of an order. Orders are created as
// "paid" (payment is confirmed before the commit) and only admins move them
// through the remaining states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order lives in users/{uid}/orders. Total, items and the address snapshot
// are immutable once written; only Status changes afterwards.
type Order struct {
	ID              string      `json:"id" firestore:"id"`
	UserID          string      `json:"userId" firestore:"userId"`
	CreatedAt       time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	Total           int64       `json:"total" firestore:"total"`
	Status          OrderStatus `json:"status" firestore:"status"`
	PaymentID       string      `json:"paymentId" firestore:"paymentId"`
	ShippingAddress Address     `json:"shippingAddress" firestore:"shippingAddress"`
}

// OrderItem lives in users/{uid}/orders/{id}/items, one per distinct cart
// line at commit time. Never mutated.
type OrderItem struct {
	ID        string `json:"id" firestore:"id"`
	OrderID   string `json:"orderId" firestore:"orderId"`
	ProductID string `json:"productId" firestore:"productId"`
	Name      string `json:"name" firestore:"name"`
	Price     int64  `json:"price" firestore:"price"`
	Quantity  int64  `json:"quantity" firestore:"quantity"`
	Image     string `json:"image" firestore:"image"`
}

// AdminOrder is an order annotated with owner display fields for the admin
// listing, which aggregates the per-user subcollections.
type AdminOrder struct {
	Order
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}
