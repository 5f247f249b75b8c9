package services

import (
	"context"

	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

// QueryService is the read surface over the aggregate. No locking: reads
// see whatever the last committed writer left behind.
type QueryService struct {
	orderRepo   *postgres.OrderRepository
	paymentRepo *postgres.PaymentRepository
	sampleRepo  *postgres.SampleRepository
	resultRepo  *postgres.ResultRepository
}

func NewQueryService(
	orderRepo *postgres.OrderRepository,
	paymentRepo *postgres.PaymentRepository,
	sampleRepo *postgres.SampleRepository,
	resultRepo *postgres.ResultRepository,
) *QueryService {
	return &QueryService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		sampleRepo:  sampleRepo,
		resultRepo:  resultRepo,
	}
}

// RequestDetail joins a request with its latest payment attempt, sample,
// sub-samples, and result. Absent parts stay nil.
type RequestDetail struct {
	Request    *domain.TestRequest
	Payment    *domain.Payment
	Sample     *domain.Sample
	SubSamples []*domain.SubSample
	Result     *domain.TestResult
}

func (s *QueryService) GetRequestDetail(ctx context.Context, requestID string) (*RequestDetail, error) {
	req, err := s.orderRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	detail := &RequestDetail{Request: req}

	if payment, err := s.paymentRepo.FindLatestByRequestID(ctx, requestID); err == nil {
		detail.Payment = payment
	} else if _, notFound := isNotFound(err); !notFound {
		return nil, err
	}

	sample, err := s.sampleRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		if _, notFound := isNotFound(err); notFound {
			return detail, nil
		}
		return nil, err
	}
	detail.Sample = sample

	subSamples, err := s.sampleRepo.ListSubSamples(ctx, sample.ID)
	if err != nil {
		return nil, err
	}
	detail.SubSamples = subSamples

	if result, err := s.resultRepo.FindBySampleID(ctx, sample.ID); err == nil {
		detail.Result = result
	} else if _, notFound := isNotFound(err); !notFound {
		return nil, err
	}

	return detail, nil
}

func (s *QueryService) ListUserRequests(ctx context.Context, userID string, limit, offset int) ([]*domain.TestRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.FindByUserID(ctx, userID, limit, offset)
}
