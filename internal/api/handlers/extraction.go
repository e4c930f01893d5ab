package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/scopefft/internal/extraction"
	"github.com/RMahshie/scopefft/internal/interpolate"
	"github.com/RMahshie/scopefft/internal/repository"
	"github.com/RMahshie/scopefft/internal/storage"
	"github.com/RMahshie/scopefft/pkg/models"
)

const uploadExpiry = 15 * time.Minute

var extensions = map[string]string{
	"image/png":  "png",
	"image/bmp":  "bmp",
	"image/jpeg": "jpg",
	"image/tiff": "tiff",
}

// ExtractionHandler handles extraction-related HTTP requests
type ExtractionHandler struct {
	repo          repository.ExtractionRepository
	s3Service     storage.S3Service
	processingSvc extraction.ProcessingService
	pipeline      *extraction.Pipeline
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(repo repository.ExtractionRepository, s3Service storage.S3Service, processingSvc extraction.ProcessingService, pipeline *extraction.Pipeline) *ExtractionHandler {
	return &ExtractionHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
		pipeline:      pipeline,
	}
}

// CreateExtraction creates a new extraction and returns an upload URL
func (h *ExtractionHandler) CreateExtraction(ctx context.Context, req *models.CreateExtractionRequest) (*models.CreateExtractionResponse, error) {
	if req.Body.FileSize < 1000 {
		return nil, huma.Error400BadRequest("Screenshot too small to be a scope capture.")
	}
	if req.Body.FileSize > 20*1024*1024 {
		return nil, huma.Error400BadRequest("Screenshot too large.")
	}

	ext, ok := extensions[req.Body.MimeType]
	if !ok {
		return nil, huma.Error400BadRequest("Screenshot format not supported.",
			fmt.Errorf("%w: %s", storage.ErrInvalidContentType, req.Body.MimeType))
	}

	extractionID := uuid.New()
	imageKey := fmt.Sprintf("screenshots/%s.%s", extractionID, ext)

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, imageKey, req.Body.MimeType)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidContentType) {
			return nil, huma.Error400BadRequest("Screenshot format not supported.", err)
		}
		return nil, huma.Error500InternalServerError("Failed to prepare upload.", err)
	}

	now := time.Now().UTC()
	record := &models.Extraction{
		ID:        extractionID.String(),
		Status:    models.StatusPending,
		ImageKey:  &imageKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(ctx, record); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create extraction", err)
	}

	log.Info().
		Str("extractionID", record.ID).
		Str("imageKey", imageKey).
		Int64("fileSize", req.Body.FileSize).
		Msg("Extraction created, returning upload URL")

	return &models.CreateExtractionResponse{
		Body: models.CreateExtractionResponseBody{
			ID:        record.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(uploadExpiry.Seconds()),
		},
	}, nil
}

// GetExtractionStatus returns the current status of an extraction
func (h *ExtractionHandler) GetExtractionStatus(ctx context.Context, req *models.ExtractionIDRequest) (*models.GetExtractionStatusResponse, error) {
	id, record, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	var resultsID *string
	if record.Status == models.StatusCompleted {
		if results, err := h.repo.GetResults(ctx, id); err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	message := statusMessage(record.Status, record.Progress)
	if record.Status == models.StatusFailed && record.ErrorMsg != nil {
		message = *record.ErrorMsg
	}

	return &models.GetExtractionStatusResponse{
		Body: models.GetExtractionStatusResponseBody{
			ID:        record.ID,
			Status:    record.Status,
			Progress:  record.Progress,
			Message:   message,
			ResultsID: resultsID,
		},
	}, nil
}

// StartProcessing starts processing an uploaded screenshot
func (h *ExtractionHandler) StartProcessing(ctx context.Context, req *models.ExtractionIDRequest) (*models.StartProcessingResponse, error) {
	id, record, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.Status == models.StatusProcessing || record.Status == models.StatusCompleted {
		return nil, huma.Error409Conflict("Extraction already started",
			fmt.Errorf("extraction status is %s", record.Status))
	}

	// Start processing in background (don't wait for completion)
	go func() {
		if err := h.processingSvc.ProcessExtraction(context.Background(), id); err != nil {
			log.Error().Err(err).Str("extractionID", id.String()).Msg("Extraction processing failed")
		}
	}()

	log.Info().Str("extractionID", id.String()).Msg("Background processing started")
	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// GetExtractionResults returns the stored samples and artifact keys
func (h *ExtractionHandler) GetExtractionResults(ctx context.Context, req *models.ExtractionIDRequest) (*models.GetExtractionResultsResponse, error) {
	results, err := h.completedResults(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &models.GetExtractionResultsResponse{
		Body: models.GetExtractionResultsResponseBody{
			ID:                   results.ID,
			ExtractionID:         results.ExtractionID,
			Samples:              results.Samples,
			ZeroRefPixelY:        results.ZeroRefPixelY,
			ExtendedCount:        results.ExtendedCount,
			NonContiguousColumns: results.NonContiguousColumns,
			Artifacts:            results.Artifacts,
			CreatedAt:            results.CreatedAt,
		},
	}, nil
}

// GetAttenuation interpolates the stored curve at one frequency
func (h *ExtractionHandler) GetAttenuation(ctx context.Context, req *models.GetAttenuationRequest) (*models.GetAttenuationResponse, error) {
	results, err := h.completedResults(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	sample, err := interpolate.At(results.Samples, req.Freq)
	if err != nil {
		return nil, interpolationError(err)
	}
	return &models.GetAttenuationResponse{Body: sample}, nil
}

// GetTable resamples the stored curve onto a fixed frequency grid
func (h *ExtractionHandler) GetTable(ctx context.Context, req *models.GetTableRequest) (*models.GetTableResponse, error) {
	results, err := h.completedResults(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	samples, err := h.pipeline.Resample(results.Samples, req.Step, req.Start, req.End)
	if err != nil {
		return nil, interpolationError(err)
	}

	resp := &models.GetTableResponse{}
	resp.Body.StepMHz = req.Step
	resp.Body.Samples = samples
	return resp, nil
}

// GetChart renders the stored curve and one resampled grid as HTML
func (h *ExtractionHandler) GetChart(ctx context.Context, req *models.GetTableRequest) (*models.GetChartResponse, error) {
	results, err := h.completedResults(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	html, err := h.pipeline.HTMLChart(results.Samples, req.Step, req.Start, req.End)
	if err != nil {
		return nil, interpolationError(err)
	}
	return &models.GetChartResponse{ContentType: "text/html; charset=utf-8", Body: html}, nil
}

// GetArtifact returns a download URL for one generated file
func (h *ExtractionHandler) GetArtifact(ctx context.Context, req *models.GetArtifactRequest) (*models.GetArtifactResponse, error) {
	results, err := h.completedResults(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	key, ok := results.Artifacts[req.Name]
	if !ok {
		return nil, huma.Error404NotFound("Artifact not found", fmt.Errorf("no artifact named %q", req.Name))
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to prepare download", err)
	}

	resp := &models.GetArtifactResponse{}
	resp.Body.Name = req.Name
	resp.Body.DownloadURL = url
	resp.Body.ExpiresIn = int(storage.DownloadExpiry.Seconds())
	return resp, nil
}

// lookup parses the path ID and loads the extraction record
func (h *ExtractionHandler) lookup(ctx context.Context, rawID string) (uuid.UUID, *models.Extraction, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, nil, huma.Error400BadRequest("Invalid extraction ID", err)
	}

	record, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, nil, huma.Error404NotFound("Extraction not found", err)
		}
		return uuid.Nil, nil, huma.Error500InternalServerError("Failed to load extraction", err)
	}
	return id, record, nil
}

func (h *ExtractionHandler) completedResults(ctx context.Context, rawID string) (*models.ExtractionResults, error) {
	id, record, err := h.lookup(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if record.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Extraction not yet completed",
			fmt.Errorf("extraction status is %s", record.Status))
	}

	results, err := h.repo.GetResults(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}
	return results, nil
}

func interpolationError(err error) error {
	if errors.Is(err, interpolate.ErrInvalidRange) {
		return huma.Error400BadRequest("Invalid frequency step or range", err)
	}
	return huma.Error422UnprocessableEntity("Stored curve cannot be interpolated", err)
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Waiting for the screenshot upload..."
	case models.StatusProcessing:
		switch {
		case progress < 25:
			return "Downloading screenshot..."
		case progress < 75:
			return "Locating the curve..."
		default:
			return "Writing tables and charts..."
		}
	case models.StatusCompleted:
		return "Extraction complete!"
	case models.StatusFailed:
		return "Extraction failed. Please try again."
	default:
		return "Unknown status"
	}
}
