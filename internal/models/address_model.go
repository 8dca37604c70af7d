package models

// Address is a shipping address in users/{uid}/addresses. At checkout the
// selected address is copied into the order document, not referenced, so later
// edits never change past orders.
type Address struct {
	ID           string `json:"id" firestore:"-"`
	Name         string `json:"name" firestore:"name"`
	Phone        string `json:"phone" firestore:"phone"`
	AddressLine1 string `json:"addressLine1" firestore:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty" firestore:"addressLine2,omitempty"`
	City         string `json:"city" firestore:"city"`
	State        string `json:"state" firestore:"state"`
	PostalCode   string `json:"postalCode" firestore:"postalCode"`
	Country      string `json:"country" firestore:"country"`
}
