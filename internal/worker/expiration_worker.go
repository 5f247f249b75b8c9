package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

// ExpirationWorker sweeps payment attempts the customer abandoned: PENDING
// rows older than the configured timeout are settled as FAILED so a fresh
// checkout can start clean. Paid rows are never touched.
type ExpirationWorker struct {
	paymentRepo *postgres.PaymentRepository
	tc          *postgres.TransactionCoordinator
	interval    time.Duration
	timeout     time.Duration
	batchSize   int
	logger      *slog.Logger
}

func NewExpirationWorker(
	paymentRepo *postgres.PaymentRepository,
	tc *postgres.TransactionCoordinator,
	interval time.Duration,
	timeout time.Duration,
	batchSize int,
	logger *slog.Logger,
) *ExpirationWorker {
	return &ExpirationWorker{
		paymentRepo: paymentRepo,
		tc:          tc,
		interval:    interval,
		timeout:     timeout,
		batchSize:   batchSize,
		logger:      logger,
	}
}

func (w *ExpirationWorker) Start(ctx context.Context) {
	w.logger.Info("payment expiration worker started",
		"interval", w.interval,
		"timeout", w.timeout,
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.processExpirations(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("payment expiration worker stopping")
			return
		case <-ticker.C:
			if err := w.processExpirations(ctx); err != nil {
				w.logger.Error("expiration sweep failed", "error", err)
			}
		}
	}
}

func (w *ExpirationWorker) processExpirations(ctx context.Context) error {
	cutoff := time.Now().Add(-w.timeout)

	stale, err := w.paymentRepo.FindStalePending(ctx, cutoff, w.batchSize)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		return nil
	}

	var expired int
	for _, payment := range stale {
		if err := w.expirePayment(ctx, payment.ID); err != nil {
			w.logger.Error("failed to expire payment",
				"payment_id", payment.ID,
				"error", err)
			continue
		}
		expired++
	}

	w.logger.Info("expired stale pending payments",
		"candidates", len(stale),
		"expired", expired,
	)
	return nil
}

// expirePayment re-reads the row under lock so a confirmation callback
// racing the sweep always wins.
func (w *ExpirationWorker) expirePayment(ctx context.Context, paymentID string) error {
	return w.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		payment, err := repos.Payments.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status != domain.PaymentPending {
			return nil
		}

		if err := payment.MarkFailed(); err != nil {
			return err
		}
		return repos.Payments.Update(ctx, payment)
	})
}
