package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
)

// reconcileService implements the ReconcileService interface.
type reconcileService struct {
	captureRepo db.PaymentCaptureRepository
	// grace is how old a still-"captured" payment must be before it is
	// flagged, so in-flight checkouts are never touched.
	grace  time.Duration
	logger *zap.Logger
}

// NewReconcileService creates a new ReconcileService instance.
func NewReconcileService(pr db.PaymentCaptureRepository, grace time.Duration, logger *zap.Logger) ReconcileService {
	return &reconcileService{
		captureRepo: pr,
		grace:       grace,
		logger:      logger,
	}
}

// Run flags every capture that was taken before the grace cutoff but never
// consumed by an order commit. Flagged payments need a manual decision:
// complete the order by hand or refund through the gateway dashboard.
func (s *reconcileService) Run(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.grace)
	stale, err := s.captureRepo.ListStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale payment captures: %w", err)
	}

	flagged := 0
	for _, capture := range stale {
		if err := s.captureRepo.Flag(ctx, capture.PaymentID); err != nil {
			s.logger.Error("failed to flag stale payment capture",
				zap.String("paymentId", capture.PaymentID),
				zap.Error(err))
			continue
		}
		flagged++
		s.logger.Warn("flagged payment capture without order",
			zap.String("paymentId", capture.PaymentID),
			zap.String("userId", capture.UserID),
			zap.Int64("amount", capture.Amount))
	}
	return flagged, nil
}

// StartReconcileLoop runs svc.Run on the given interval until ctx is
// cancelled. Meant to be launched as a goroutine from main.
func StartReconcileLoop(ctx context.Context, svc ReconcileService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := svc.Run(ctx)
			if err != nil {
				logger.Error("payment reconciliation pass failed", zap.Error(err))
				continue
			}
			if flagged > 0 {
				logger.Info("payment reconciliation pass complete", zap.Int("flagged", flagged))
			}
		}
	}
}
