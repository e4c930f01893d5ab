package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/scopefft/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("record not found")

// ExtractionRepository defines the interface for extraction data operations
type ExtractionRepository interface {
	Create(ctx context.Context, extraction *models.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Extraction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, results *models.ExtractionResults) error
	GetResults(ctx context.Context, extractionID uuid.UUID) (*models.ExtractionResults, error)
}
