package models

import "time"

// Product is a catalog entry. Prices are whole currency units (INR rupees).
type Product struct {
	ID            string `json:"id" firestore:"-"` // Document ID
	Name          string `json:"name" firestore:"name"`
	Price         int64  `json:"price" firestore:"price"`
	OriginalPrice int64  `json:"originalPrice,omitempty" firestore:"originalPrice,omitempty"`
	Description   string `json:"description,omitempty" firestore:"description,omitempty"`
	Stock         int64  `json:"stock" firestore:"stock"`
	Image         string `json:"image" firestore:"image"`
}

// Review lives in the products/{id}/reviews subcollection. Author fields are
// denormalized at write time so the list renders without user lookups.
type Review struct {
	ID           string    `json:"id" firestore:"-"`
	UserID       string    `json:"userId" firestore:"userId"`
	UserName     string    `json:"userName" firestore:"userName"`
	UserPhotoURL string    `json:"userPhotoURL,omitempty" firestore:"userPhotoURL,omitempty"`
	Rating       int       `json:"rating" firestore:"rating"`
	Comment      string    `json:"comment" firestore:"comment"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
