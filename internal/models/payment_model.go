package models

import "time"

// CaptureStatus tracks a gateway payment through the two-phase commit:
// "captured" is written before the order transaction, "consumed" inside it.
// Captures that never reach "consumed" are picked up by reconciliation and
// marked "flagged" for manual completion or refund.
type CaptureStatus string

const (
	CaptureStatusCaptured CaptureStatus = "captured"
	CaptureStatusConsumed CaptureStatus = "consumed"
	CaptureStatusFlagged  CaptureStatus = "flagged"
)

// PaymentCapture lives in the top-level paymentCaptures collection, keyed by
// the gateway payment ID so a payment can only ever be recorded once.
type PaymentCapture struct {
	PaymentID string        `json:"paymentId" firestore:"paymentId"`
	UserID    string        `json:"userId" firestore:"userId"`
	OrderID   string        `json:"orderId,omitempty" firestore:"orderId,omitempty"`
	Amount    int64         `json:"amount" firestore:"amount"`
	Currency  string        `json:"currency" firestore:"currency"`
	Status    CaptureStatus `json:"status" firestore:"status"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time     `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
