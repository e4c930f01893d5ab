package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateExtractionRequest represents a request to create a new extraction
type CreateExtractionRequest struct {
	Body struct {
		FileSize int64  `json:"file_size" minimum:"1000" maximum:"20971520" required:"true" doc:"Screenshot size in bytes"`
		MimeType string `json:"mime_type" enum:"image/png,image/bmp,image/jpeg,image/tiff" required:"true" doc:"Screenshot MIME type"`
	}
}

// CreateExtractionResponseBody is the body of the create extraction response
type CreateExtractionResponseBody struct {
	ID        string `json:"id" doc:"Extraction unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for the screenshot upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateExtractionResponse represents the response from creating an extraction
type CreateExtractionResponse struct {
	Body CreateExtractionResponseBody
}

// ExtractionIDRequest addresses a single extraction
type ExtractionIDRequest struct {
	ID string `path:"id" doc:"Extraction ID"`
}

// GetExtractionStatusResponseBody is the body of the status response
type GetExtractionStatusResponseBody struct {
	ID        string  `json:"id" doc:"Extraction ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Extraction status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Extraction progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when the extraction completes"`
}

// GetExtractionStatusResponse represents the current status of an extraction
type GetExtractionStatusResponse struct {
	Body GetExtractionStatusResponseBody
}

// GetExtractionResultsResponseBody is the body of the results response
type GetExtractionResultsResponseBody struct {
	ID                   string            `json:"id" doc:"Results ID"`
	ExtractionID         string            `json:"extraction_id" doc:"Extraction ID"`
	Samples              []MappedSample    `json:"samples" doc:"Curve samples at their original frequencies"`
	ZeroRefPixelY        float64           `json:"zero_ref_pixel_y" doc:"Pixel row used as the 0 dBV reference"`
	ExtendedCount        int               `json:"extended_count" doc:"Number of synthetic samples left of the plotted curve"`
	NonContiguousColumns int               `json:"non_contiguous_columns" doc:"Columns whose matching pixels were not one contiguous run"`
	Artifacts            map[string]string `json:"artifacts,omitempty" doc:"Generated files and their object keys"`
	CreatedAt            time.Time         `json:"created_at" doc:"Results creation timestamp"`
}

// GetExtractionResultsResponse represents the complete extraction results
type GetExtractionResultsResponse struct {
	Body GetExtractionResultsResponseBody
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetAttenuationRequest asks for the attenuation at one frequency
type GetAttenuationRequest struct {
	ID   string  `path:"id" doc:"Extraction ID"`
	Freq float64 `query:"freq" minimum:"0" required:"true" doc:"Frequency in MHz"`
}

// GetAttenuationResponse carries one interpolated sample
type GetAttenuationResponse struct {
	Body InterpolatedSample
}

// GetTableRequest asks for a fixed-step resampled table
type GetTableRequest struct {
	ID    string  `path:"id" doc:"Extraction ID"`
	Step  float64 `query:"step" default:"10" exclusiveMinimum:"0" maximum:"10000" doc:"Frequency step in MHz"`
	Start float64 `query:"start" default:"0" minimum:"0" maximum:"10000" doc:"First frequency in MHz"`
	End   float64 `query:"end" default:"1000" minimum:"0" maximum:"10000" doc:"Last frequency in MHz"`
}

// GetTableResponse carries a resampled table
type GetTableResponse struct {
	Body struct {
		StepMHz float64              `json:"step_mhz" doc:"Frequency step in MHz"`
		Samples []InterpolatedSample `json:"samples" doc:"Resampled attenuation table"`
	}
}

// GetChartResponse is an HTML chart of the resampled response
type GetChartResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// GetArtifactRequest addresses one generated file of an extraction
type GetArtifactRequest struct {
	ID   string `path:"id" doc:"Extraction ID"`
	Name string `path:"name" doc:"Artifact file name"`
}

// GetArtifactResponse carries a pre-signed download URL for an artifact
type GetArtifactResponse struct {
	Body struct {
		Name        string `json:"name" doc:"Artifact file name"`
		DownloadURL string `json:"download_url" doc:"Pre-signed S3 URL for the download"`
		ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}
