package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/scopefft/internal/api/handlers"
	"github.com/RMahshie/scopefft/internal/extraction"
	"github.com/RMahshie/scopefft/internal/repository"
	"github.com/RMahshie/scopefft/internal/storage"
	"github.com/RMahshie/scopefft/pkg/models"
)

// Version is reported by the health endpoint and the OpenAPI document.
const Version = "1.0.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, s3Service storage.S3Service, extractionRepo repository.ExtractionRepository, processingSvc extraction.ProcessingService, pipeline *extraction.Pipeline) {
	extractionHandler := handlers.NewExtractionHandler(extractionRepo, s3Service, processingSvc, pipeline)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "createExtraction",
		Method:      http.MethodPost,
		Path:        "/api/extractions",
		Summary:     "Create a new extraction",
		Description: "Creates an extraction record and returns a screenshot upload URL",
		Tags:        []string{"Extraction"},
	}, extractionHandler.CreateExtraction)

	huma.Register(api, huma.Operation{
		OperationID: "getExtractionStatus",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/status",
		Summary:     "Get extraction status",
		Description: "Returns the current status and progress of an extraction",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetExtractionStatus)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/extractions/{id}/process",
		Summary:     "Start processing an extraction",
		Description: "Starts locating the curve in the uploaded screenshot",
		Tags:        []string{"Extraction"},
	}, extractionHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "getExtractionResults",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/results",
		Summary:     "Get extraction results",
		Description: "Returns the curve samples at their original frequencies and the generated files",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetExtractionResults)

	huma.Register(api, huma.Operation{
		OperationID: "getAttenuation",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/attenuation",
		Summary:     "Attenuation at a frequency",
		Description: "Interpolates the extracted curve at one frequency",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetAttenuation)

	huma.Register(api, huma.Operation{
		OperationID: "getTable",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/table",
		Summary:     "Resampled attenuation table",
		Description: "Resamples the extracted curve onto a fixed frequency step",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetTable)

	huma.Register(api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/chart",
		Summary:     "Attenuation chart",
		Description: "Renders the extracted curve and a resampled grid as an HTML chart",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetChart)

	huma.Register(api, huma.Operation{
		OperationID: "getArtifact",
		Method:      http.MethodGet,
		Path:        "/api/extractions/{id}/artifacts/{name}",
		Summary:     "Download a generated file",
		Description: "Returns a pre-signed URL for one of the tables, charts or the annotated screenshot",
		Tags:        []string{"Extraction"},
	}, extractionHandler.GetArtifact)
}
