package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/RMahshie/scopefft/pkg/models"
)

// EncodeResults renders the JSON text columns of a results row.
func EncodeResults(results *models.ExtractionResults) (string, sql.NullString, error) {
	samples, err := json.Marshal(results.Samples)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to marshal samples: %w", err)
	}

	var artifacts sql.NullString
	if results.Artifacts != nil {
		b, err := json.Marshal(results.Artifacts)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("failed to marshal artifacts: %w", err)
		}
		artifacts = sql.NullString{String: string(b), Valid: true}
	}
	return string(samples), artifacts, nil
}

// DecodeResults fills results from the JSON text columns.
func DecodeResults(results *models.ExtractionResults, samples string, artifacts sql.NullString) error {
	if err := json.Unmarshal([]byte(samples), &results.Samples); err != nil {
		return fmt.Errorf("failed to unmarshal samples: %w", err)
	}
	if artifacts.Valid {
		if err := json.Unmarshal([]byte(artifacts.String), &results.Artifacts); err != nil {
			return fmt.Errorf("failed to unmarshal artifacts: %w", err)
		}
	}
	return nil
}
