package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lamvd/dnalab-gateway/internal/application/services/testhelpers"
	"github.com/lamvd/dnalab-gateway/internal/domain"
	"github.com/lamvd/dnalab-gateway/internal/infrastructure/persistence/postgres"
)

type ExpirationWorkerTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDatabase
	orderRepo   *postgres.OrderRepository
	paymentRepo *postgres.PaymentRepository
	worker      *ExpirationWorker
}

func TestExpirationWorkerSuite(t *testing.T) {
	suite.Run(t, new(ExpirationWorkerTestSuite))
}

func (suite *ExpirationWorkerTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.orderRepo = postgres.NewOrderRepository(suite.testDB.DB)
	suite.paymentRepo = postgres.NewPaymentRepository(suite.testDB.DB)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	tc := postgres.NewTransactionCoordinator(suite.testDB.DB)
	suite.worker = NewExpirationWorker(
		suite.paymentRepo,
		tc,
		time.Minute,
		15*time.Minute,
		100,
		logger,
	)
}

func (suite *ExpirationWorkerTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *ExpirationWorkerTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *ExpirationWorkerTestSuite) createPayment(status domain.PaymentStatus, age time.Duration) *domain.Payment {
	t := suite.T()
	ctx := context.Background()

	req, err := domain.NewTestRequest(uuid.New().String(), "user-1", "svc-paternity", domain.MethodCenter, nil)
	require.NoError(t, err)
	require.NoError(t, suite.orderRepo.Create(ctx, req))

	payment, err := domain.NewPayment(uuid.New().String(), req.ID, "VNPAY", 250000)
	require.NoError(t, err)
	require.NoError(t, suite.paymentRepo.Create(ctx, payment))

	if status == domain.PaymentPaid {
		require.NoError(t, payment.MarkPaid(time.Now(), "VNPAY14233591"))
		require.NoError(t, suite.paymentRepo.Update(ctx, payment))
	}

	_, err = suite.testDB.DB.Pool.Exec(ctx,
		"UPDATE payments SET created_at = $1 WHERE id = $2",
		time.Now().Add(-age), payment.ID)
	require.NoError(t, err)

	return payment
}

func (suite *ExpirationWorkerTestSuite) Test_Sweep_ExpiresStalePendingOnly() {
	t := suite.T()
	ctx := context.Background()

	stale := suite.createPayment(domain.PaymentPending, time.Hour)
	fresh := suite.createPayment(domain.PaymentPending, time.Minute)
	paid := suite.createPayment(domain.PaymentPaid, time.Hour)

	require.NoError(t, suite.worker.processExpirations(ctx))

	saved, err := suite.paymentRepo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, saved.Status)

	saved, err = suite.paymentRepo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, saved.Status)

	saved, err = suite.paymentRepo.FindByID(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, saved.Status, "paid rows are never swept")
}

func (suite *ExpirationWorkerTestSuite) Test_Sweep_EmptyBacklogIsQuiet() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.worker.processExpirations(ctx))
}
