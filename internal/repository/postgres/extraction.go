package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RMahshie/scopefft/internal/repository"
	"github.com/RMahshie/scopefft/pkg/models"
	"github.com/google/uuid"
)

// PostgresExtractionRepository implements ExtractionRepository for PostgreSQL
type PostgresExtractionRepository struct {
	db *sql.DB
}

// NewPostgresExtractionRepository creates a new PostgreSQL extraction repository
func NewPostgresExtractionRepository(db *sql.DB) repository.ExtractionRepository {
	return &PostgresExtractionRepository{db: db}
}

// Create inserts a new extraction record
func (r *PostgresExtractionRepository) Create(ctx context.Context, extraction *models.Extraction) error {
	query := `
		INSERT INTO extractions (id, status, progress, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		extraction.ID,
		extraction.Status,
		extraction.Progress,
		extraction.ImageKey,
		extraction.CreatedAt,
		extraction.UpdatedAt)

	return err
}

// GetByID retrieves an extraction by ID
func (r *PostgresExtractionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Extraction, error) {
	query := `
		SELECT id, status, progress, image_key, error_message, created_at, updated_at, completed_at
		FROM extractions
		WHERE id = $1`

	var extraction models.Extraction
	var imageKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&extraction.ID,
		&extraction.Status,
		&extraction.Progress,
		&imageKey,
		&errorMsg,
		&extraction.CreatedAt,
		&extraction.UpdatedAt,
		&completedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extraction %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if imageKey.Valid {
		extraction.ImageKey = &imageKey.String
	}
	if errorMsg.Valid {
		extraction.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		extraction.CompletedAt = &completedAt.Time
	}

	return &extraction, nil
}

// UpdateStatus updates the status and progress of an extraction
func (r *PostgresExtractionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE extractions
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks an extraction as failed with a message
func (r *PostgresExtractionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE extractions
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults stores extraction results
func (r *PostgresExtractionRepository) StoreResults(ctx context.Context, results *models.ExtractionResults) error {
	samples, artifacts, err := repository.EncodeResults(results)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extraction_results (id, extraction_id, samples, zero_ref_pixel_y, extended_count, non_contiguous_columns, artifacts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.ExtractionID,
		samples,
		results.ZeroRefPixelY,
		results.ExtendedCount,
		results.NonContiguousColumns,
		artifacts,
		results.CreatedAt)

	return err
}

// GetResults retrieves extraction results
func (r *PostgresExtractionRepository) GetResults(ctx context.Context, extractionID uuid.UUID) (*models.ExtractionResults, error) {
	query := `
		SELECT id, extraction_id, samples, zero_ref_pixel_y, extended_count, non_contiguous_columns, artifacts, created_at
		FROM extraction_results
		WHERE extraction_id = $1`

	var results models.ExtractionResults
	var samplesStr string
	var artifactsStr sql.NullString

	err := r.db.QueryRowContext(ctx, query, extractionID).Scan(
		&results.ID,
		&results.ExtractionID,
		&samplesStr,
		&results.ZeroRefPixelY,
		&results.ExtendedCount,
		&results.NonContiguousColumns,
		&artifactsStr,
		&results.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("results for %s: %w", extractionID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := repository.DecodeResults(&results, samplesStr, artifactsStr); err != nil {
		return nil, err
	}
	return &results, nil
}
