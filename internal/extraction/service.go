package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/scopefft/internal/calibration"
	"github.com/RMahshie/scopefft/internal/config"
	"github.com/RMahshie/scopefft/internal/curve"
	"github.com/RMahshie/scopefft/internal/imageio"
	"github.com/RMahshie/scopefft/internal/repository"
	"github.com/RMahshie/scopefft/internal/storage"
	"github.com/RMahshie/scopefft/pkg/models"
)

// ProcessingService runs uploaded screenshots through the pipeline.
type ProcessingService interface {
	ProcessExtraction(ctx context.Context, extractionID uuid.UUID) error
}

type processingService struct {
	s3         storage.S3Service
	repository repository.ExtractionRepository
	pipeline   *Pipeline
	cfg        *config.Config
}

func NewProcessingService(s3Service storage.S3Service, repo repository.ExtractionRepository, pipeline *Pipeline, cfg *config.Config) ProcessingService {
	return &processingService{
		s3:         s3Service,
		repository: repo,
		pipeline:   pipeline,
		cfg:        cfg,
	}
}

// ArtifactKey is the object key an artifact of an extraction is stored under.
func ArtifactKey(extractionID uuid.UUID, name string) string {
	return fmt.Sprintf("results/%s/%s", extractionID, name)
}

func (s *processingService) ProcessExtraction(ctx context.Context, extractionID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, extractionID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get extraction details
	extraction, err := s.repository.GetByID(ctx, extractionID)
	if err != nil {
		return err
	}
	if extraction.ImageKey == nil {
		s.repository.UpdateError(ctx, extractionID, "No screenshot uploaded")
		return nil // status is updated to failed
	}

	// Step 3: Download from S3
	if err := s.repository.UpdateStatus(ctx, extractionID, models.StatusProcessing, 20); err != nil {
		return err
	}
	data, err := s.s3.DownloadFile(ctx, *extraction.ImageKey)
	if err != nil {
		log.Error().Err(err).Str("extractionID", extractionID.String()).Msg("Screenshot download failed")
		s.repository.UpdateError(ctx, extractionID, "Failed to download screenshot")
		return nil // status is updated to failed
	}

	img, format, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		s.repository.UpdateError(ctx, extractionID, "Screenshot could not be decoded")
		return nil
	}
	log.Debug().
		Str("extractionID", extractionID.String()).
		Str("contentType", imageio.ContentType(format)).
		Int("bytes", len(data)).
		Msg("Screenshot downloaded")

	// Step 4: Locate and map the curve
	if err := s.repository.UpdateStatus(ctx, extractionID, models.StatusProcessing, 50); err != nil {
		return err
	}
	start := time.Now()
	res, err := s.pipeline.Run(img)
	if err != nil {
		s.repository.UpdateError(ctx, extractionID, failureMessage(err))
		return fmt.Errorf("extraction failed: %w", err)
	}
	log.Info().
		Str("extractionID", extractionID.String()).
		Dur("elapsed", time.Since(start)).
		Int("samples", len(res.Mapped)).
		Msg("Screenshot processed")

	// Step 5: Render and upload artifacts
	if err := s.repository.UpdateStatus(ctx, extractionID, models.StatusProcessing, 80); err != nil {
		return err
	}
	artifacts, err := s.pipeline.Artifacts(res, s.cfg)
	if err != nil {
		s.repository.UpdateError(ctx, extractionID, failureMessage(err))
		return fmt.Errorf("render artifacts: %w", err)
	}

	keys := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		key := ArtifactKey(extractionID, a.Name)
		if err := s.s3.UploadFile(ctx, key, a.ContentType, a.Data); err != nil {
			s.abandonResults(ctx, extractionID, keys)
			return err
		}
		keys[a.Name] = key
	}

	// Step 6: Store results
	if err := s.repository.UpdateStatus(ctx, extractionID, models.StatusProcessing, 90); err != nil {
		s.abandonResults(ctx, extractionID, keys)
		return err
	}
	results := &models.ExtractionResults{
		ID:                   uuid.New().String(),
		ExtractionID:         extraction.ID,
		Samples:              res.Mapped,
		ZeroRefPixelY:        res.ZeroRefY,
		ExtendedCount:        res.ExtendedCount,
		NonContiguousColumns: res.NonContiguousColumns,
		Artifacts:            keys,
		CreatedAt:            time.Now().UTC(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		s.abandonResults(ctx, extractionID, keys)
		return err
	}

	// Step 7: Mark complete
	return s.repository.UpdateStatus(ctx, extractionID, models.StatusCompleted, 100)
}

// abandonResults removes uploaded artifacts and marks the extraction failed.
func (s *processingService) abandonResults(ctx context.Context, extractionID uuid.UUID, keys map[string]string) {
	s.removeUploaded(ctx, keys)
	s.repository.UpdateError(ctx, extractionID, "Failed to store results")
}

// removeUploaded deletes the artifacts of a run that could not finish.
func (s *processingService) removeUploaded(ctx context.Context, keys map[string]string) {
	for _, key := range keys {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to remove partial artifact")
		}
	}
}

// failureMessage turns a pipeline error into the text stored on the extraction.
func failureMessage(err error) string {
	var mismatch *calibration.ResolutionMismatchError
	switch {
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Screenshot must be %dx%d pixels, got %dx%d",
			mismatch.Want.X, mismatch.Want.Y, mismatch.Got.X, mismatch.Got.Y)
	case errors.Is(err, curve.ErrEmptyCurve):
		return "Curve colour not found in the search zones"
	default:
		return fmt.Sprintf("Extraction failed: %v", err)
	}
}
