package domain

import (
	"errors"
	"time"
)

// PaymentStatus represents the current state of a payment attempt
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment is one attempt to pay for a test request. A request holds at most
// one live attempt at a time: a new attempt supersedes an unpaid one, and
// exactly one attempt per request may ever reach PAID.
type Payment struct {
	ID        string
	RequestID string
	Method    string
	Amount    int64 // minor units
	Status    PaymentStatus

	PaidAt *time.Time
	Token  *string // method + external transaction id, for audit

	CreatedAt time.Time
}

func NewPayment(id, requestID, method string, amount int64) (*Payment, error) {
	if id == "" {
		return nil, errors.New("payment ID is required")
	}
	if requestID == "" {
		return nil, errors.New("request ID is required")
	}
	if method == "" {
		return nil, errors.New("payment method is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	return &Payment{
		ID:        id,
		RequestID: requestID,
		Method:    method,
		Amount:    amount,
		Status:    PaymentPending,
		CreatedAt: time.Now(),
	}, nil
}

// MarkPaid applies an externally-confirmed payment. A PAID payment is
// immutable; re-applying the same confirmation is a no-op so processor
// retries stay safe.
func (p *Payment) MarkPaid(paidAt time.Time, token string) error {
	if p.Status == PaymentPaid {
		return nil
	}
	if p.Status == PaymentFailed {
		return NewPaymentSettledError(p.ID, p.Status)
	}
	p.Status = PaymentPaid
	p.PaidAt = &paidAt
	p.Token = &token
	return nil
}

// MarkFailed settles a pending attempt as failed (declined callback,
// checkout superseded, or expiry sweep). Settled attempts are immutable.
func (p *Payment) MarkFailed() error {
	if p.IsSettled() {
		return NewPaymentSettledError(p.ID, p.Status)
	}
	p.Status = PaymentFailed
	return nil
}

func (p *Payment) IsSettled() bool {
	return p.Status != PaymentPending
}
