// Package sqlite stores extractions in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/scopefft/internal/repository"
	"github.com/RMahshie/scopefft/pkg/models"
	"github.com/google/uuid"
)

// SQLiteExtractionRepository implements ExtractionRepository for SQLite
type SQLiteExtractionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteExtractionRepository creates a new SQLite extraction repository
func NewSQLiteExtractionRepository(db *sql.DB) repository.ExtractionRepository {
	return &SQLiteExtractionRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new extraction record
func (r *SQLiteExtractionRepository) Create(ctx context.Context, extraction *models.Extraction) error {
	query := `
		INSERT INTO extractions (id, status, progress, image_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		extraction.ID,
		extraction.Status,
		extraction.Progress,
		extraction.ImageKey,
		extraction.CreatedAt.UTC(),
		extraction.UpdatedAt.UTC())

	return err
}

// GetByID retrieves an extraction by ID
func (r *SQLiteExtractionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Extraction, error) {
	query := `
		SELECT id, status, progress, image_key, error_message, created_at, updated_at, completed_at
		FROM extractions
		WHERE id = ?`

	var extraction models.Extraction
	var imageKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
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
func (r *SQLiteExtractionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE extractions
		SET status = ?, progress = ?, updated_at = ?,
		    completed_at = CASE WHEN ? = 'completed' THEN ? ELSE completed_at END
		WHERE id = ?`

	now := r.now()
	_, err := r.db.ExecContext(ctx, query, status, progress, now, status, now, id.String())
	return err
}

// UpdateError marks an extraction as failed with a message
func (r *SQLiteExtractionRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE extractions
		SET status = 'failed', error_message = ?, updated_at = ?
		WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, errorMsg, r.now(), id.String())
	return err
}

// StoreResults stores extraction results
func (r *SQLiteExtractionRepository) StoreResults(ctx context.Context, results *models.ExtractionResults) error {
	samples, artifacts, err := repository.EncodeResults(results)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extraction_results (id, extraction_id, samples, zero_ref_pixel_y, extended_count, non_contiguous_columns, artifacts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.ExtractionID,
		samples,
		results.ZeroRefPixelY,
		results.ExtendedCount,
		results.NonContiguousColumns,
		artifacts,
		results.CreatedAt.UTC())

	return err
}

// GetResults retrieves extraction results
func (r *SQLiteExtractionRepository) GetResults(ctx context.Context, extractionID uuid.UUID) (*models.ExtractionResults, error) {
	query := `
		SELECT id, extraction_id, samples, zero_ref_pixel_y, extended_count, non_contiguous_columns, artifacts, created_at
		FROM extraction_results
		WHERE extraction_id = ?`

	var results models.ExtractionResults
	var samples string
	var artifacts sql.NullString

	err := r.db.QueryRowContext(ctx, query, extractionID.String()).Scan(
		&results.ID,
		&results.ExtractionID,
		&samples,
		&results.ZeroRefPixelY,
		&results.ExtendedCount,
		&results.NonContiguousColumns,
		&artifacts,
		&results.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("results for %s: %w", extractionID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := repository.DecodeResults(&results, samples, artifacts); err != nil {
		return nil, err
	}
	return &results, nil
}
