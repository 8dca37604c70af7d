package models

import "time"

// User is the backend profile document mirroring a Firebase Auth account.
// The document ID is the Firebase Auth UID.
type User struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	PhotoURL    string    `json:"photoURL" firestore:"photoURL"`
	IsAdmin     bool      `json:"isAdmin" firestore:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
