// Package domain encodes the lab order aggregate and its attributes
package domain

import (
	"errors"
	"slices"
	"time"
)

// OrderStatus represents the current state of a test request in its lifecycle
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusSending   OrderStatus = "SENDING"
	StatusReturning OrderStatus = "RETURNING"
	StatusCollected OrderStatus = "COLLECTED"
	StatusArrived   OrderStatus = "ARRIVED"
	StatusTesting   OrderStatus = "TESTING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// CollectionMethod is how the physical sample reaches the lab
type CollectionMethod string

const (
	MethodSelf   CollectionMethod = "SELF"
	MethodCenter CollectionMethod = "CENTER"
	MethodHome   CollectionMethod = "HOME"
)

// TestRequest is the aggregate root for one testing engagement.
// Status only changes through Transition/Cancel/Complete; callers never
// write the field directly.
type TestRequest struct {
	ID               string
	UserID           string
	StaffID          *string
	ServiceID        string
	CollectionMethod CollectionMethod
	Status           OrderStatus

	AppointmentAt *time.Time
	CreatedAt     time.Time
}

func NewTestRequest(
	id string,
	userID string,
	serviceID string,
	method CollectionMethod,
	appointmentAt *time.Time,
) (*TestRequest, error) {
	if id == "" {
		return nil, errors.New("request ID is required")
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if serviceID == "" {
		return nil, errors.New("service ID is required")
	}
	switch method {
	case MethodSelf, MethodCenter, MethodHome:
	default:
		return nil, errors.New("unknown collection method")
	}

	return &TestRequest{
		ID:               id,
		UserID:           userID,
		ServiceID:        serviceID,
		CollectionMethod: method,
		Status:           StatusPending,
		AppointmentAt:    appointmentAt,
		CreatedAt:        time.Now(),
	}, nil
}

// Transition moves the request along the fulfillment graph for its
// collection method. Cancel and Complete have their own entry points.
func (r *TestRequest) Transition(target OrderStatus) error {
	if err := r.canTransitionTo(target); err != nil {
		return err
	}
	r.Status = target
	return nil
}

func (r *TestRequest) canTransitionTo(target OrderStatus) error {
	if r.IsTerminal() {
		return NewInvalidTransitionError(r.Status, target)
	}
	if target == StatusCancelled {
		return nil
	}

	switch r.Status {
	case StatusPending:
		if r.CollectionMethod == MethodSelf {
			return r.allow(target, StatusSending)
		}
		return r.allow(target, StatusArrived)
	case StatusSending:
		return r.allow(target, StatusReturning)
	case StatusReturning:
		return r.allow(target, StatusCollected)
	case StatusCollected:
		return r.allow(target, StatusArrived)
	case StatusArrived:
		return r.allow(target, StatusTesting)
	case StatusTesting:
		return r.allow(target, StatusCompleted)
	}
	return NewInvalidTransitionError(r.Status, target)
}

func (r *TestRequest) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(r.Status, target)
}

// Cancel moves the request to the terminal CANCELLED state. Legal from any
// non-terminal state regardless of collection method.
func (r *TestRequest) Cancel() error {
	return r.Transition(StatusCancelled)
}

// Complete marks the request COMPLETED from any non-terminal state. A
// recorded result implies the physical workflow is done, so the usual edge
// set does not apply here.
func (r *TestRequest) Complete() error {
	if r.IsTerminal() {
		return NewInvalidTransitionError(r.Status, StatusCompleted)
	}
	r.Status = StatusCompleted
	return nil
}

// AssignStaff records the member of staff responsible for the request.
func (r *TestRequest) AssignStaff(staffID string) error {
	if staffID == "" {
		return errors.New("staff ID is required")
	}
	if r.IsTerminal() {
		return NewInvalidTransitionError(r.Status, r.Status)
	}
	r.StaffID = &staffID
	return nil
}

// IsTerminal reports whether the request can no longer be mutated.
func (r *TestRequest) IsTerminal() bool {
	switch r.Status {
	case StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
