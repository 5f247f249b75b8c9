package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lamvd/dnalab-gateway/internal/domain"
)

const sampleColumns = `id, request_id, collector_id, sample_type, status, received_at`

type SampleRepository struct {
	q Executor
}

func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{q: db.Pool}
}

func (r *SampleRepository) Create(ctx context.Context, sample *domain.Sample) error {
	query := `
		INSERT INTO samples (` + sampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		sample.ID,
		sample.RequestID,
		sample.CollectorID,
		sample.SampleType,
		string(sample.Status),
		sample.ReceivedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicatePrimarySampleError(sample.RequestID)
		}
		return fmt.Errorf("failed to create sample: %w", err)
	}

	return nil
}

func (r *SampleRepository) FindByID(ctx context.Context, id string) (*domain.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	return scanSample(row, id)
}

// FindByRequestID returns the primary sample of a request.
func (r *SampleRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples WHERE request_id = $1`

	row := r.q.QueryRow(ctx, query, requestID)
	return scanSample(row, requestID)
}

func (r *SampleRepository) Update(ctx context.Context, sample *domain.Sample) error {
	query := `UPDATE samples SET status = $1 WHERE id = $2`

	result, err := r.q.Exec(ctx, query, string(sample.Status), sample.ID)
	if err != nil {
		return fmt.Errorf("failed to update sample: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("sample", sample.ID)
	}

	return nil
}

func (r *SampleRepository) CreateSubSample(ctx context.Context, sub *domain.SubSample) error {
	query := `
		INSERT INTO sub_samples (id, sample_id, participant_name, date_of_birth, sample_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		sub.ID,
		sub.SampleID,
		sub.ParticipantName,
		sub.DateOfBirth,
		sub.SampleType,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sub-sample: %w", err)
	}

	return nil
}

func (r *SampleRepository) ListSubSamples(ctx context.Context, sampleID string) ([]*domain.SubSample, error) {
	query := `
		SELECT id, sample_id, participant_name, date_of_birth, sample_type, created_at
		FROM sub_samples
		WHERE sample_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, sampleID)
	if err != nil {
		return nil, fmt.Errorf("query sub-samples: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.SubSample, error) {
		var m SubSampleModel
		err := row.Scan(
			&m.ID, &m.SampleID, &m.ParticipantName, &m.DateOfBirth,
			&m.SampleType, &m.CreatedAt,
		)
		return subSampleToDomain(m), err
	})
}

func scanSample(row pgx.Row, id string) (*domain.Sample, error) {
	var m SampleModel
	err := row.Scan(
		&m.ID, &m.RequestID, &m.CollectorID, &m.SampleType, &m.Status, &m.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("sample", id)
		}
		return nil, fmt.Errorf("failed to scan sample: %w", err)
	}
	return sampleToDomain(m), nil
}
