package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lamvd/dnalab-gateway/internal/domain"
)

type OrderRepository struct {
	q Executor
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{q: db.Pool}
}

func (r *OrderRepository) Create(ctx context.Context, req *domain.TestRequest) error {
	query := `
		INSERT INTO test_requests (
			id, user_id, staff_id, service_id, collection_method, status,
			appointment_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	m := orderToModel(req)
	_, err := r.q.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.StaffID,
		m.ServiceID,
		m.CollectionMethod,
		m.Status,
		m.AppointmentAt,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test request: %w", err)
	}

	return nil
}

// FindByID retrieves a test request
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.TestRequest, error) {
	query := `
		SELECT id, user_id, staff_id, service_id, collection_method, status,
		       appointment_at, created_at
		FROM test_requests WHERE id = $1
	`

	row := r.q.QueryRow(ctx, query, id)
	return scanOrder(row, id)
}

// FindByIDForUpdate retrieves a test request with a row-level lock. Every
// mutation of the aggregate goes through this inside a transaction, which
// serializes concurrent writers per order.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.TestRequest, error) {
	query := `
		SELECT id, user_id, staff_id, service_id, collection_method, status,
		       appointment_at, created_at
		FROM test_requests WHERE id = $1
		FOR UPDATE
	`

	row := r.q.QueryRow(ctx, query, id)
	return scanOrder(row, id)
}

// FindByUserID retrieves a user's requests, newest first.
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.TestRequest, error) {
	query := `
		SELECT id, user_id, staff_id, service_id, collection_method, status,
		       appointment_at, created_at
		FROM test_requests WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query test requests by user_id: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.TestRequest, error) {
		var m OrderModel
		err := row.Scan(
			&m.ID, &m.UserID, &m.StaffID, &m.ServiceID, &m.CollectionMethod,
			&m.Status, &m.AppointmentAt, &m.CreatedAt,
		)
		return orderToDomain(m), err
	})
}

func (r *OrderRepository) Update(ctx context.Context, req *domain.TestRequest) error {
	query := `
		UPDATE test_requests
		SET staff_id = $1, status = $2, appointment_at = $3
		WHERE id = $4
	`

	m := orderToModel(req)
	result, err := r.q.Exec(ctx, query, m.StaffID, m.Status, m.AppointmentAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update test request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("test request", req.ID)
	}

	return nil
}

func scanOrder(row pgx.Row, id string) (*domain.TestRequest, error) {
	var m OrderModel
	err := row.Scan(
		&m.ID, &m.UserID, &m.StaffID, &m.ServiceID, &m.CollectionMethod,
		&m.Status, &m.AppointmentAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("test request", id)
		}
		return nil, fmt.Errorf("failed to scan test request: %w", err)
	}
	return orderToDomain(m), nil
}
