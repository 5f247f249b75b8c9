package services_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lamvd/dnalab-gateway/internal/application/services"
	"github.com/lamvd/dnalab-gateway/internal/application/services/testhelpers"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

type ResultServiceTestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDatabase
	orderRepo  *postgres.OrderRepository
	sampleRepo *postgres.SampleRepository
	resultRepo *postgres.ResultRepository
	orders     *services.OrderService
	samples    *services.SampleService
	service    *services.ResultService
	queries    *services.QueryService
}

func TestResultServiceSuite(t *testing.T) {
	suite.Run(t, new(ResultServiceTestSuite))
}

func (suite *ResultServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())

	suite.orderRepo = postgres.NewOrderRepository(suite.testDB.DB)
	suite.sampleRepo = postgres.NewSampleRepository(suite.testDB.DB)
	suite.resultRepo = postgres.NewResultRepository(suite.testDB.DB)
	paymentRepo := postgres.NewPaymentRepository(suite.testDB.DB)
	tc := postgres.NewTransactionCoordinator(suite.testDB.DB)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	suite.orders = services.NewOrderService(suite.orderRepo, paymentRepo, tc, logger)
	suite.samples = services.NewSampleService(suite.sampleRepo, tc, logger)
	suite.service = services.NewResultService(suite.orders, tc, logger)
	suite.queries = services.NewQueryService(suite.orderRepo, paymentRepo, suite.sampleRepo, suite.resultRepo)
}

func (suite *ResultServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *ResultServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *ResultServiceTestSuite) Test_RecordResult_CompletesOrderAndMarksSampleTested() {
	t := suite.T()
	ctx := context.Background()
	req := testhelpers.CreateRequest(t, ctx, suite.orders, domain.MethodCenter)
	sample := testhelpers.RecordSample(t, ctx, suite.samples, req.ID)

	result, err := suite.service.RecordResult(ctx, services.RecordResultCommand{
		SampleID:   sample.ID,
		UploadedBy: "tech-1",
		ApprovedBy: "supervisor-1",
		IsMatch:    true,
		ReportPath: "reports/2025/req-1.pdf",
	})
	require.NoError(t, err)
	assert.True(t, result.IsMatch)

	savedOrder, err := suite.orderRepo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, savedOrder.Status)

	savedSample, err := suite.sampleRepo.FindByID(ctx, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SampleTested, savedSample.Status)
}

func (suite *ResultServiceTestSuite) Test_RecordResult_DuplicateRejected() {
	t := suite.T()
	ctx := context.Background()
	req := testhelpers.CreateRequest(t, ctx, suite.orders, domain.MethodCenter)
	sample := testhelpers.RecordSample(t, ctx, suite.samples, req.ID)

	cmd := services.RecordResultCommand{
		SampleID:   sample.ID,
		UploadedBy: "tech-1",
		ApprovedBy: "supervisor-1",
		IsMatch:    true,
		ReportPath: "reports/2025/req-1.pdf",
	}

	first, err := suite.service.RecordResult(ctx, cmd)
	require.NoError(t, err)

	cmd.IsMatch = false
	_, err = suite.service.RecordResult(ctx, cmd)
	require.Error(t, err)

	domErr, ok := domain.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeResultAlreadyExists, domErr.Code)

	saved, err := suite.resultRepo.FindBySampleID(ctx, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, saved.ID)
	assert.True(t, saved.IsMatch, "the original verdict stands")
}

func (suite *ResultServiceTestSuite) Test_RecordResult_CancelledOrderRollsBackEverything() {
	t := suite.T()
	ctx := context.Background()
	req := testhelpers.CreateRequest(t, ctx, suite.orders, domain.MethodCenter)
	sample := testhelpers.RecordSample(t, ctx, suite.samples, req.ID)

	// order dies between collection and the lab upload
	_, err := suite.orders.Cancel(ctx, req.ID)
	require.NoError(t, err)

	_, err = suite.service.RecordResult(ctx, services.RecordResultCommand{
		SampleID:   sample.ID,
		UploadedBy: "tech-1",
		ApprovedBy: "supervisor-1",
		IsMatch:    true,
		ReportPath: "reports/2025/req-1.pdf",
	})
	require.Error(t, err)

	exists, err := suite.resultRepo.ExistsForSample(ctx, sample.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the result row must roll back with the failed completion")

	savedSample, err := suite.sampleRepo.FindByID(ctx, sample.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SampleReceived, savedSample.Status)
}

func (suite *ResultServiceTestSuite) Test_RecordResult_UnknownSample() {
	t := suite.T()
	ctx := context.Background()

	_, err := suite.service.RecordResult(ctx, services.RecordResultCommand{
		SampleID:   "00000000-0000-0000-0000-000000000000",
		UploadedBy: "tech-1",
		ApprovedBy: "supervisor-1",
	})
	require.Error(t, err)

	domErr, ok := domain.IsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeNotFound, domErr.Code)
}

// Walk-in engagement end to end: booked, sample collected at the center,
// result uploaded, order completed. Payment never gates fulfillment.
func (suite *ResultServiceTestSuite) Test_CenterEngagement_EndToEnd() {
	t := suite.T()
	ctx := context.Background()

	req := testhelpers.CreateRequest(t, ctx, suite.orders, domain.MethodCenter)
	payment := testhelpers.AttachPendingPayment(t, ctx, suite.orders, req.ID)

	sample := testhelpers.RecordSample(t, ctx, suite.samples, req.ID)

	_, err := suite.orders.Transition(ctx, req.ID, domain.StatusTesting, "staff-2")
	require.NoError(t, err)

	_, err = suite.service.RecordResult(ctx, services.RecordResultCommand{
		SampleID:   sample.ID,
		UploadedBy: "tech-1",
		ApprovedBy: "supervisor-1",
		IsMatch:    false,
		ReportPath: "reports/2025/walkin.pdf",
	})
	require.NoError(t, err)

	detail, err := suite.queries.GetRequestDetail(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, detail.Request.Status)
	require.NotNil(t, detail.Payment)
	assert.Equal(t, payment.ID, detail.Payment.ID)
	assert.Equal(t, domain.PaymentPending, detail.Payment.Status, "fulfillment completed with payment still pending")
	require.NotNil(t, detail.Sample)
	assert.Equal(t, domain.SampleTested, detail.Sample.Status)
	require.NotNil(t, detail.Result)
	assert.False(t, detail.Result.IsMatch)
}

func (suite *ResultServiceTestSuite) Test_ListUserRequests() {
	t := suite.T()
	ctx := context.Background()

	cmd := testhelpers.DefaultCreateRequestCommand()
	first, err := suite.orders.CreateRequest(ctx, cmd)
	require.NoError(t, err)
	second, err := suite.orders.CreateRequest(ctx, cmd)
	require.NoError(t, err)

	other := testhelpers.DefaultCreateRequestCommand()
	_, err = suite.orders.CreateRequest(ctx, other)
	require.NoError(t, err)

	listed, err := suite.queries.ListUserRequests(ctx, cmd.UserID, 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	ids := []string{listed[0].ID, listed[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}
