package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/vnpay"
)

// PaymentService composes the wire-level gateway with the order ledger:
// outbound it attaches a pending payment and builds the signed redirect,
// inbound it verifies callbacks and applies them exactly once.
type PaymentService struct {
	orders  *OrderService
	gateway *vnpay.Gateway
	logger  *slog.Logger
}

func NewPaymentService(orders *OrderService, gateway *vnpay.Gateway, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		orders:  orders,
		gateway: gateway,
		logger:  logger,
	}
}

// CheckoutResult carries the redirect URL for the new payment attempt.
type CheckoutResult struct {
	Payment     *domain.Payment
	RedirectURL string
}

// Checkout opens a payment attempt and returns the processor redirect URL.
func (s *PaymentService) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	payment, err := s.orders.AttachPayment(ctx, cmd.RequestID, cmd.Method, cmd.Amount)
	if err != nil {
		return nil, err
	}

	redirectURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		TxnRef:    payment.ID,
		Amount:    payment.Amount,
		OrderInfo: fmt.Sprintf("Payment for test request %s", cmd.RequestID),
		IPAddr:    cmd.ClientIP,
		Locale:    cmd.Locale,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Payment:     payment,
		RedirectURL: redirectURL,
	}, nil
}

// CallbackResult reports how an inbound callback was resolved.
type CallbackResult struct {
	PaymentID string
	Outcome   vnpay.Outcome
	// Applied is false when the callback was valid but a no-op: a replayed
	// success, or a callback for a superseded attempt.
	Applied bool
}

// HandleCallback verifies and applies a processor return callback. The path
// is idempotent: redelivery of the same successful callback finds the
// payment already PAID and changes nothing. A forged or tampered payload
// never reaches the ledger.
func (s *PaymentService) HandleCallback(ctx context.Context, values url.Values) (*CallbackResult, error) {
	data, err := s.gateway.ParseReturn(values)
	if err != nil {
		if domErr, ok := domain.IsDomainError(err); ok && domErr.Code == domain.ErrCodeSignatureInvalid {
			// repeated occurrences mean tampering or a misconfigured
			// secret, so this goes out at security severity
			s.logger.Error("callback signature verification failed",
				"txn_ref", values.Get("vnp_TxnRef"),
				"response_code", values.Get("vnp_ResponseCode"),
			)
		}
		return nil, err
	}

	if data.Outcome != vnpay.OutcomeSuccess {
		return s.handleDeclined(ctx, data)
	}

	payment, applied, err := s.orders.ApplyPaymentConfirmation(ctx, data.TxnRef, data.PayDate, data.TransactionNo)
	if err != nil {
		if domErr, ok := domain.IsDomainError(err); ok && domErr.Code == domain.ErrCodePaymentSettled {
			// success callback for a superseded attempt: transport-level
			// duplication or a stale retry, resolved as a no-op
			s.logger.Warn("success callback for superseded payment",
				"payment_id", data.TxnRef,
				"transaction_no", data.TransactionNo,
			)
			return &CallbackResult{PaymentID: data.TxnRef, Outcome: data.Outcome, Applied: false}, nil
		}
		return nil, err
	}

	return &CallbackResult{
		PaymentID: payment.ID,
		Outcome:   data.Outcome,
		Applied:   applied,
	}, nil
}

func (s *PaymentService) handleDeclined(ctx context.Context, data *vnpay.CallbackData) (*CallbackResult, error) {
	payment, err := s.orders.ApplyPaymentFailure(ctx, data.TxnRef)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment declined by processor",
		"payment_id", payment.ID,
		"response_code", data.ResponseCode,
	)
	return &CallbackResult{
		PaymentID: payment.ID,
		Outcome:   data.Outcome,
		Applied:   payment.Status == domain.PaymentFailed,
	}, nil
}
