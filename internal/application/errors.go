package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lamvd/dnalab-gateway/internal/domain"
)

// ServiceError is an application-level failure carrying the HTTP status the
// REST layer should render. The core services stay transport-agnostic; only
// the mapping lives here.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// FromDomainError lifts a domain error into a ServiceError with the right
// client-facing status: conflict for duplicates and illegal transitions,
// not-found for unknown ids, bad request for a failed signature.
func FromDomainError(err error) *ServiceError {
	domErr, ok := domain.IsDomainError(err)
	if !ok {
		return NewInternalError(err)
	}

	status := http.StatusConflict
	switch domErr.Code {
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeSignatureInvalid:
		status = http.StatusBadRequest
	}

	return &ServiceError{
		Code:       domErr.Code,
		Message:    domErr.Message,
		HTTPStatus: status,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
