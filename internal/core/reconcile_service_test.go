package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

func seedCapture(repo *fakeCaptureRepo, paymentID string, status models.CaptureStatus, age time.Duration) {
	repo.captures[paymentID] = &models.PaymentCapture{
		PaymentID: paymentID,
		UserID:    "user-1",
		Amount:    1000,
		Currency:  "INR",
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestReconcileService_FlagsOnlyStaleCaptured(t *testing.T) {
	captureRepo := newFakeCaptureRepo()
	svc := NewReconcileService(captureRepo, 30*time.Minute, zap.NewNop())

	seedCapture(captureRepo, "pay-stale", models.CaptureStatusCaptured, time.Hour)
	seedCapture(captureRepo, "pay-fresh", models.CaptureStatusCaptured, time.Minute)
	seedCapture(captureRepo, "pay-done", models.CaptureStatusConsumed, time.Hour)
	seedCapture(captureRepo, "pay-flagged", models.CaptureStatusFlagged, time.Hour)

	flagged, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	assert.Equal(t, models.CaptureStatusFlagged, captureRepo.captures["pay-stale"].Status)
	assert.Equal(t, models.CaptureStatusCaptured, captureRepo.captures["pay-fresh"].Status)
	assert.Equal(t, models.CaptureStatusConsumed, captureRepo.captures["pay-done"].Status)
}

func TestReconcileService_FlagFailureDoesNotCount(t *testing.T) {
	captureRepo := newFakeCaptureRepo()
	captureRepo.flagErr = errors.New("firestore unavailable")
	svc := NewReconcileService(captureRepo, 30*time.Minute, zap.NewNop())

	seedCapture(captureRepo, "pay-stale", models.CaptureStatusCaptured, time.Hour)

	// A failed flag is logged and retried on the next pass, not counted.
	flagged, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, flagged)
	assert.Equal(t, models.CaptureStatusCaptured, captureRepo.captures["pay-stale"].Status)
}

func TestReconcileService_NothingToFlag(t *testing.T) {
	captureRepo := newFakeCaptureRepo()
	svc := NewReconcileService(captureRepo, 30*time.Minute, zap.NewNop())

	flagged, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, flagged)
}
