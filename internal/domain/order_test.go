package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, method CollectionMethod) *TestRequest {
	t.Helper()
	req, err := NewTestRequest("req-1", "user-1", "svc-paternity", method, nil)
	require.NoError(t, err)
	require.Equal(t, StatusPending, req.Status)
	return req
}

func TestNewTestRequest_Validation(t *testing.T) {
	_, err := NewTestRequest("", "user-1", "svc-1", MethodSelf, nil)
	assert.Error(t, err)

	_, err = NewTestRequest("req-1", "", "svc-1", MethodSelf, nil)
	assert.Error(t, err)

	_, err = NewTestRequest("req-1", "user-1", "svc-1", CollectionMethod("COURIER"), nil)
	assert.Error(t, err)
}

func TestTransition_SelfMethodFullPath(t *testing.T) {
	req := newRequest(t, MethodSelf)

	path := []OrderStatus{
		StatusSending, StatusReturning, StatusCollected,
		StatusArrived, StatusTesting, StatusCompleted,
	}
	for _, target := range path {
		require.NoError(t, req.Transition(target), "edge to %s", target)
		assert.Equal(t, target, req.Status)
	}
}

func TestTransition_CenterMethodSkipsKitStates(t *testing.T) {
	req := newRequest(t, MethodCenter)

	require.NoError(t, req.Transition(StatusArrived))
	require.NoError(t, req.Transition(StatusTesting))
	require.NoError(t, req.Transition(StatusCompleted))
}

func TestTransition_CenterMethodRejectsKitStates(t *testing.T) {
	for _, target := range []OrderStatus{StatusSending, StatusReturning, StatusCollected} {
		req := newRequest(t, MethodCenter)

		err := req.Transition(target)
		require.Error(t, err)

		domErr, ok := IsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidTransition, domErr.Code)
		assert.Equal(t, StatusPending, req.Status)
	}
}

func TestTransition_SelfMethodCannotSkipAhead(t *testing.T) {
	req := newRequest(t, MethodSelf)

	for _, target := range []OrderStatus{StatusArrived, StatusTesting, StatusCompleted, StatusCollected} {
		err := req.Transition(target)
		require.Error(t, err, "edge to %s should be illegal from PENDING", target)
	}
	assert.Equal(t, StatusPending, req.Status)
}

func TestCancel_FromAnyNonTerminalState(t *testing.T) {
	states := []OrderStatus{
		StatusSending, StatusReturning, StatusCollected,
		StatusArrived, StatusTesting,
	}

	req := newRequest(t, MethodSelf)
	require.NoError(t, req.Cancel())

	for _, from := range states {
		req := newRequest(t, MethodSelf)
		req.Status = from
		require.NoError(t, req.Cancel(), "cancel from %s", from)
		assert.Equal(t, StatusCancelled, req.Status)
	}
}

func TestCancelledAndCompletedAreAbsorbing(t *testing.T) {
	req := newRequest(t, MethodCenter)
	require.NoError(t, req.Cancel())

	for _, target := range []OrderStatus{StatusArrived, StatusTesting, StatusCompleted, StatusCancelled} {
		assert.Error(t, req.Transition(target), "edge out of CANCELLED to %s", target)
	}

	done := newRequest(t, MethodCenter)
	done.Status = StatusCompleted
	for _, target := range []OrderStatus{StatusArrived, StatusCancelled} {
		assert.Error(t, done.Transition(target), "edge out of COMPLETED to %s", target)
	}
}

func TestComplete_FromEveryNonTerminalState(t *testing.T) {
	states := []OrderStatus{
		StatusPending, StatusSending, StatusReturning,
		StatusCollected, StatusArrived, StatusTesting,
	}

	for _, from := range states {
		req := newRequest(t, MethodSelf)
		req.Status = from
		require.NoError(t, req.Complete(), "complete from %s", from)
		assert.Equal(t, StatusCompleted, req.Status)
	}
}

func TestComplete_FailsFromCancelled(t *testing.T) {
	req := newRequest(t, MethodCenter)
	require.NoError(t, req.Cancel())

	err := req.Complete()
	require.Error(t, err)

	domErr, ok := IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidTransition, domErr.Code)
	assert.Equal(t, StatusCancelled, req.Status)
}

func TestAssignStaff(t *testing.T) {
	req := newRequest(t, MethodHome)

	require.NoError(t, req.AssignStaff("staff-9"))
	require.NotNil(t, req.StaffID)
	assert.Equal(t, "staff-9", *req.StaffID)

	assert.Error(t, req.AssignStaff(""))

	require.NoError(t, req.Cancel())
	assert.Error(t, req.AssignStaff("staff-10"))
}
