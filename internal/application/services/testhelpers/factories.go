package testhelpers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/domain"
)

// DefaultCreateRequestCommand returns a valid CENTER collection request.
func DefaultCreateRequestCommand() services.CreateRequestCommand {
	return services.CreateRequestCommand{
		UserID:           "user-" + uuid.New().String(),
		ServiceID:        "svc-paternity",
		CollectionMethod: string(domain.MethodCenter),
	}
}

// CreateRequest books a fresh PENDING request through the service layer.
func CreateRequest(
	t *testing.T,
	ctx context.Context,
	orders *services.OrderService,
	method domain.CollectionMethod,
) *domain.TestRequest {
	t.Helper()

	cmd := DefaultCreateRequestCommand()
	cmd.CollectionMethod = string(method)

	req, err := orders.CreateRequest(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, req)
	require.Equal(t, domain.StatusPending, req.Status)

	return req
}

// AttachPendingPayment opens a payment attempt for a request.
func AttachPendingPayment(
	t *testing.T,
	ctx context.Context,
	orders *services.OrderService,
	requestID string,
) *domain.Payment {
	t.Helper()

	payment, err := orders.AttachPayment(ctx, requestID, "VNPAY", 250000)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPending, payment.Status)

	return payment
}

// RecordSample registers the primary specimen for a request.
func RecordSample(
	t *testing.T,
	ctx context.Context,
	samples *services.SampleService,
	requestID string,
) *domain.Sample {
	t.Helper()

	sample, err := samples.RecordPrimarySample(ctx, services.RecordSampleCommand{
		RequestID:   requestID,
		CollectorID: "staff-" + uuid.New().String(),
		SampleType:  "BUCCAL_SWAB",
	})
	require.NoError(t, err)
	require.NotNil(t, sample)

	return sample
}
