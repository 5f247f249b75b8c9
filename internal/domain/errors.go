package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business rule violation
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidTransition      = "INVALID_TRANSITION"
	ErrCodeSignatureInvalid       = "SIGNATURE_INVALID"
	ErrCodeDuplicatePayment       = "DUPLICATE_PAYMENT"
	ErrCodePaymentSettled         = "PAYMENT_SETTLED"
	ErrCodeDuplicatePrimarySample = "DUPLICATE_PRIMARY_SAMPLE"
	ErrCodeResultAlreadyExists    = "RESULT_ALREADY_EXISTS"
	ErrCodeNotFound               = "NOT_FOUND"
)

func NewInvalidTransitionError(from, to OrderStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewSignatureInvalidError() *DomainError {
	return &DomainError{
		Code:    ErrCodeSignatureInvalid,
		Message: "callback signature verification failed",
	}
}

func NewDuplicatePaymentError(requestID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicatePayment,
		Message: fmt.Sprintf("request %s already has a paid payment", requestID),
	}
}

func NewPaymentSettledError(paymentID string, status PaymentStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentSettled,
		Message: fmt.Sprintf("payment %s is already settled as %s", paymentID, status),
	}
}

func NewDuplicatePrimarySampleError(requestID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicatePrimarySample,
		Message: fmt.Sprintf("request %s already has a primary sample", requestID),
	}
}

func NewResultAlreadyExistsError(sampleID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeResultAlreadyExists,
		Message: fmt.Sprintf("sample %s already has a recorded result", sampleID),
	}
}

func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// IsDomainError extracts a DomainError from an error chain.
func IsDomainError(err error) (*DomainError, bool) {
	var domErr *DomainError
	ok := errors.As(err, &domErr)
	return domErr, ok
}
