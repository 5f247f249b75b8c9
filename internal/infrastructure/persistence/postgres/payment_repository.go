package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lamvd/dnalab-gateway/internal/domain"
)

const paymentColumns = `id, request_id, method, amount, status, paid_at, token, created_at`

type PaymentRepository struct {
	q Executor
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	m := paymentToModel(payment)
	_, err := r.q.Exec(ctx, query,
		m.ID,
		m.RequestID,
		m.Method,
		m.Amount,
		m.Status,
		m.PaidAt,
		m.Token,
		m.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicatePaymentError(payment.RequestID)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	return scanPayment(row, id)
}

// FindByIDForUpdate retrieves a payment with a row-level lock so callback
// application is serialized per payment.
func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	row := r.q.QueryRow(ctx, query, id)
	return scanPayment(row, id)
}

// FindPendingByRequestID returns the live (pending) attempt for a request,
// if any, locking it for supersession.
func (r *PaymentRepository) FindPendingByRequestID(ctx context.Context, requestID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE request_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`

	row := r.q.QueryRow(ctx, query, requestID)
	return scanPayment(row, requestID)
}

// HasPaidPayment reports whether a request has already been paid.
func (r *PaymentRepository) HasPaidPayment(ctx context.Context, requestID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE request_id = $1 AND status = 'PAID')`

	var exists bool
	if err := r.q.QueryRow(ctx, query, requestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check paid payment for request %s: %w", requestID, err)
	}
	return exists, nil
}

// FindLatestByRequestID returns the most recent attempt for a request.
func (r *PaymentRepository) FindLatestByRequestID(ctx context.Context, requestID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE request_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.q.QueryRow(ctx, query, requestID)
	return scanPayment(row, requestID)
}

// FindStalePending finds PENDING payments created before the cutoff.
func (r *PaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = 'PENDING'
		  AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending payments: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Payment, error) {
		var m PaymentModel
		err := row.Scan(
			&m.ID, &m.RequestID, &m.Method, &m.Amount, &m.Status,
			&m.PaidAt, &m.Token, &m.CreatedAt,
		)
		return paymentToDomain(m), err
	})
}

func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, paid_at = $2, token = $3
		WHERE id = $4
	`

	m := paymentToModel(payment)
	result, err := r.q.Exec(ctx, query, m.Status, m.PaidAt, m.Token, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("payment", payment.ID)
	}

	return nil
}

func scanPayment(row pgx.Row, id string) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.RequestID, &m.Method, &m.Amount, &m.Status,
		&m.PaidAt, &m.Token, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("payment", id)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return paymentToDomain(m), nil
}
