package models

import "time"

// ContactMessage is a message submitted through the public contact form and
// reviewed in the admin inbox.
type ContactMessage struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Message   string    `json:"message" firestore:"message"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	Read      bool      `json:"read" firestore:"read"`
}
