package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lamvd/dnalab-gateway/internal/domain"
)

const resultColumns = `id, sample_id, uploaded_by, approved_by, is_match, report_path, created_at`

type ResultRepository struct {
	q Executor
}

func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{q: db.Pool}
}

func (r *ResultRepository) Create(ctx context.Context, result *domain.TestResult) error {
	query := `
		INSERT INTO test_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		result.ID,
		result.SampleID,
		result.UploadedBy,
		result.ApprovedBy,
		result.IsMatch,
		result.ReportPath,
		result.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewResultAlreadyExistsError(result.SampleID)
		}
		return fmt.Errorf("failed to create test result: %w", err)
	}

	return nil
}

func (r *ResultRepository) FindBySampleID(ctx context.Context, sampleID string) (*domain.TestResult, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE sample_id = $1`

	var m ResultModel
	err := r.q.QueryRow(ctx, query, sampleID).Scan(
		&m.ID, &m.SampleID, &m.UploadedBy, &m.ApprovedBy,
		&m.IsMatch, &m.ReportPath, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("test result for sample", sampleID)
		}
		return nil, fmt.Errorf("failed to scan test result: %w", err)
	}
	return resultToDomain(m), nil
}

// ExistsForSample reports whether a sample already has a result.
func (r *ResultRepository) ExistsForSample(ctx context.Context, sampleID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM test_results WHERE sample_id = $1)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, sampleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check result for sample %s: %w", sampleID, err)
	}
	return exists, nil
}
