package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

// SampleService owns sample collection: one primary sample per request,
// any number of descriptive sub-samples underneath it.
type SampleService struct {
	sampleRepo *postgres.SampleRepository
	tc         *postgres.TransactionCoordinator
	logger     *slog.Logger
}

func NewSampleService(
	sampleRepo *postgres.SampleRepository,
	tc *postgres.TransactionCoordinator,
	logger *slog.Logger,
) *SampleService {
	return &SampleService{
		sampleRepo: sampleRepo,
		tc:         tc,
		logger:     logger,
	}
}

// RecordPrimarySample registers the principal specimen for a request. For
// CENTER and HOME orders the request jumps to ARRIVED in the same
// transaction; SELF orders stay where the kit workflow left them. The
// collector becomes the assigned staff when the order had none.
func (s *SampleService) RecordPrimarySample(ctx context.Context, cmd RecordSampleCommand) (*domain.Sample, error) {
	var sample *domain.Sample
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		req, txErr := repos.Orders.FindByIDForUpdate(ctx, cmd.RequestID)
		if txErr != nil {
			return txErr
		}
		if req.IsTerminal() {
			return domain.NewInvalidTransitionError(req.Status, req.Status)
		}

		if _, txErr = repos.Samples.FindByRequestID(ctx, cmd.RequestID); txErr == nil {
			return domain.NewDuplicatePrimarySampleError(cmd.RequestID)
		} else if _, notFound := isNotFound(txErr); !notFound {
			return txErr
		}

		sample, txErr = domain.NewSample(uuid.New().String(), cmd.RequestID, cmd.CollectorID, cmd.SampleType)
		if txErr != nil {
			return application.NewInvalidInputError(txErr)
		}
		if txErr = repos.Samples.Create(ctx, sample); txErr != nil {
			return txErr
		}

		if req.CollectionMethod == domain.MethodSelf {
			return nil
		}

		if req.StaffID == nil {
			if err := req.AssignStaff(cmd.CollectorID); err != nil {
				return err
			}
		}
		if err := req.Transition(domain.StatusArrived); err != nil {
			return err
		}
		return repos.Orders.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("primary sample recorded",
		"request_id", cmd.RequestID,
		"sample_id", sample.ID,
		"collector", cmd.CollectorID,
	)
	return sample, nil
}

// RecordSubSample adds a secondary contributor description to an existing
// sample. Purely additive.
func (s *SampleService) RecordSubSample(ctx context.Context, cmd RecordSubSampleCommand) (*domain.SubSample, error) {
	if _, err := s.sampleRepo.FindByID(ctx, cmd.SampleID); err != nil {
		return nil, err
	}

	sub, err := domain.NewSubSample(
		uuid.New().String(),
		cmd.SampleID,
		cmd.ParticipantName,
		cmd.SampleType,
		cmd.DateOfBirth,
	)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.sampleRepo.CreateSubSample(ctx, sub); err != nil {
		return nil, application.NewInternalError(err)
	}

	return sub, nil
}

func (s *SampleService) GetSample(ctx context.Context, sampleID string) (*domain.Sample, error) {
	return s.sampleRepo.FindByID(ctx, sampleID)
}
