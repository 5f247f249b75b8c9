package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lamvd/dnalab-gateway/internal/application"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

// OrderService is the only sanctioned mutator of test request status and
// payment status. Every mutation locks the aggregate row inside a
// transaction, so writers of the same order are serialized while different
// orders proceed in parallel.
type OrderService struct {
	orderRepo   *postgres.OrderRepository
	paymentRepo *postgres.PaymentRepository
	tc          *postgres.TransactionCoordinator
	logger      *slog.Logger
}

func NewOrderService(
	orderRepo *postgres.OrderRepository,
	paymentRepo *postgres.PaymentRepository,
	tc *postgres.TransactionCoordinator,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		tc:          tc,
		logger:      logger,
	}
}

// CreateRequest books a new test request in PENDING.
func (s *OrderService) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (*domain.TestRequest, error) {
	req, err := domain.NewTestRequest(
		uuid.New().String(),
		cmd.UserID,
		cmd.ServiceID,
		domain.CollectionMethod(cmd.CollectionMethod),
		cmd.AppointmentAt,
	)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.orderRepo.Create(ctx, req); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("test request created",
		"request_id", req.ID,
		"user_id", req.UserID,
		"collection_method", req.CollectionMethod,
	)
	return req, nil
}

func (s *OrderService) GetRequest(ctx context.Context, requestID string) (*domain.TestRequest, error) {
	return s.orderRepo.FindByID(ctx, requestID)
}

// Transition moves a request along its collection method's edge set. The
// actor leaving PENDING on an unstaffed order becomes the assigned staff,
// which keeps staff null only while the order is PENDING.
func (s *OrderService) Transition(ctx context.Context, requestID string, target domain.OrderStatus, actorID string) (*domain.TestRequest, error) {
	var req *domain.TestRequest
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		var txErr error
		req, txErr = repos.Orders.FindByIDForUpdate(ctx, requestID)
		if txErr != nil {
			return txErr
		}

		if req.Status == domain.StatusPending && target != domain.StatusCancelled &&
			req.StaffID == nil && actorID != "" {
			if err := req.AssignStaff(actorID); err != nil {
				return err
			}
		}

		if err := req.Transition(target); err != nil {
			return err
		}
		return repos.Orders.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("test request transitioned",
		"request_id", requestID,
		"status", req.Status,
		"actor", actorID,
	)
	return req, nil
}

// Cancel moves a request to the terminal CANCELLED state.
func (s *OrderService) Cancel(ctx context.Context, requestID string) (*domain.TestRequest, error) {
	return s.Transition(ctx, requestID, domain.StatusCancelled, "")
}

// AssignStaff sets the responsible staff member without touching status.
func (s *OrderService) AssignStaff(ctx context.Context, requestID, staffID string) (*domain.TestRequest, error) {
	var req *domain.TestRequest
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		var txErr error
		req, txErr = repos.Orders.FindByIDForUpdate(ctx, requestID)
		if txErr != nil {
			return txErr
		}

		if err := req.AssignStaff(staffID); err != nil {
			return err
		}
		return repos.Orders.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Complete marks the request COMPLETED from any non-terminal state. Calling
// it on an already-completed order is a no-op; on a cancelled one it fails.
func (s *OrderService) Complete(ctx context.Context, requestID string) error {
	return s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		return s.CompleteInTx(ctx, repos, requestID)
	})
}

// CompleteInTx is the transaction-bound form of Complete, used by the
// result reconciliation so that result creation and order completion commit
// or roll back as one unit.
func (s *OrderService) CompleteInTx(ctx context.Context, repos postgres.Repos, requestID string) error {
	req, err := repos.Orders.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		return err
	}

	if req.Status == domain.StatusCompleted {
		return nil
	}

	if err := req.Complete(); err != nil {
		return err
	}
	if err := repos.Orders.Update(ctx, req); err != nil {
		return err
	}

	s.logger.Info("test request completed", "request_id", requestID)
	return nil
}

// AttachPayment opens a new PENDING payment attempt for a request. It is
// rejected once a PAID payment exists; a live unpaid attempt is superseded,
// never duplicated.
func (s *OrderService) AttachPayment(ctx context.Context, requestID, method string, amount int64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		// lock the order row first so concurrent attach attempts serialize
		req, txErr := repos.Orders.FindByIDForUpdate(ctx, requestID)
		if txErr != nil {
			return txErr
		}
		if req.IsTerminal() {
			return domain.NewInvalidTransitionError(req.Status, req.Status)
		}

		paid, txErr := repos.Payments.HasPaidPayment(ctx, requestID)
		if txErr != nil {
			return txErr
		}
		if paid {
			return domain.NewDuplicatePaymentError(requestID)
		}

		prev, txErr := repos.Payments.FindPendingByRequestID(ctx, requestID)
		if txErr == nil {
			if err := prev.MarkFailed(); err != nil {
				return err
			}
			if err := repos.Payments.Update(ctx, prev); err != nil {
				return err
			}
			s.logger.Info("superseded pending payment",
				"request_id", requestID,
				"payment_id", prev.ID,
			)
		} else if _, notFound := isNotFound(txErr); !notFound {
			return txErr
		}

		payment, txErr = domain.NewPayment(uuid.New().String(), requestID, method, amount)
		if txErr != nil {
			return application.NewInvalidInputError(txErr)
		}
		return repos.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment attached",
		"request_id", requestID,
		"payment_id", payment.ID,
		"amount", amount,
	)
	return payment, nil
}

// ApplyPaymentConfirmation idempotently marks a payment PAID. A payment
// that is already PAID is untouched and reported as such. Order status is
// never changed here; payment and physical fulfillment are independent.
func (s *OrderService) ApplyPaymentConfirmation(ctx context.Context, paymentID string, paidAt time.Time, processorTxnID string) (*domain.Payment, bool, error) {
	var payment *domain.Payment
	var applied bool
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		var txErr error
		payment, txErr = repos.Payments.FindByIDForUpdate(ctx, paymentID)
		if txErr != nil {
			return txErr
		}

		if payment.Status == domain.PaymentPaid {
			return nil
		}

		token := payment.Method + processorTxnID
		if err := payment.MarkPaid(paidAt, token); err != nil {
			return err
		}
		applied = true
		return repos.Payments.Update(ctx, payment)
	})
	if err != nil {
		return nil, false, err
	}

	if applied {
		s.logger.Info("payment confirmed",
			"payment_id", payment.ID,
			"request_id", payment.RequestID,
		)
	}
	return payment, applied, nil
}

// ApplyPaymentFailure settles a pending payment as FAILED after a declined
// callback. Settled payments are left alone.
func (s *OrderService) ApplyPaymentFailure(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.tc.WithTransaction(ctx, func(ctx context.Context, repos postgres.Repos) error {
		var txErr error
		payment, txErr = repos.Payments.FindByIDForUpdate(ctx, paymentID)
		if txErr != nil {
			return txErr
		}

		if payment.IsSettled() {
			return nil
		}

		if err := payment.MarkFailed(); err != nil {
			return err
		}
		return repos.Payments.Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func isNotFound(err error) (*domain.DomainError, bool) {
	domErr, ok := domain.IsDomainError(err)
	if !ok || domErr.Code != domain.ErrCodeNotFound {
		return nil, false
	}
	return domErr, true
}
