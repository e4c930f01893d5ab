package models

import (
	"time"
)

// Extraction statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Extraction represents one screenshot extraction run (for internal use)
type Extraction struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	ImageKey    *string    `json:"image_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ExtractionResults represents the stored outcome of a completed extraction
type ExtractionResults struct {
	ID                   string            `json:"id"`
	ExtractionID         string            `json:"extraction_id"`
	Samples              []MappedSample    `json:"samples"`
	ZeroRefPixelY        float64           `json:"zero_ref_pixel_y"`
	ExtendedCount        int               `json:"extended_count"`
	NonContiguousColumns int               `json:"non_contiguous_columns"`
	Artifacts            map[string]string `json:"artifacts,omitempty"` // artifact name -> object key
	CreatedAt            time.Time         `json:"created_at"`
}
