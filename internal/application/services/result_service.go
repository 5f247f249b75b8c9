package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

// ResultService records the authoritative test result for a sample and
// drives the order's terminal transition. Result creation and order
// completion are one atomic unit: a result on a cancelled order is
// meaningless, so a failed completion rolls the result back.
type ResultService struct {
	orders *OrderService
	tc     *postgres.TransactionCoordinator
	logger *slog.Logger
}

func NewResultService(
	orders *OrderService,
	tc *postgres.TransactionCoordinator,
	logger *slog.Logger,
) *ResultService {
	return &ResultService{
		orders: orders,
		tc:     tc,
		logger: logger,
	}
}

// RecordResult persists the result for a sample and completes its order.
// A second result for the same sample is rejected, never overwritten.
func (s *ResultService) RecordResult(ctx context.Context, cmd RecordResultCommand) (*domain.TestResult, error) {
	var result *domain.TestResult
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		sample, txErr := repos.Samples.FindByID(ctx, cmd.SampleID)
		if txErr != nil {
			return txErr
		}

		exists, txErr := repos.Results.ExistsForSample(ctx, sample.ID)
		if txErr != nil {
			return txErr
		}
		if exists {
			return domain.NewResultAlreadyExistsError(sample.ID)
		}

		result, txErr = domain.NewTestResult(
			uuid.New().String(),
			sample.ID,
			cmd.UploadedBy,
			cmd.ApprovedBy,
			cmd.IsMatch,
			cmd.ReportPath,
		)
		if txErr != nil {
			return application.NewInvalidInputError(txErr)
		}
		if txErr = repos.Results.Create(ctx, result); txErr != nil {
			return txErr
		}

		sample.MarkTested()
		if txErr = repos.Samples.Update(ctx, sample); txErr != nil {
			return txErr
		}

		return s.orders.CompleteInTx(ctx, repos, sample.RequestID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("test result recorded",
		"sample_id", cmd.SampleID,
		"result_id", result.ID,
		"is_match", cmd.IsMatch,
	)
	return result, nil
}
