package models

import "encoding/json"

// ExtractionRequest is one unit of work for the extraction runner: a trained
// model dump plus per-request knobs. In kafka mode this is the message
// payload; in file mode the shell builds it from configuration.
type ExtractionRequest struct {
	Asset        string          `json:"asset"`
	TotalSamples int             `json:"total_samples"`
	Model        json.RawMessage `json:"model"`

	// Optional per-request overrides of the configured extractor settings.
	MaxRules          *int     `json:"max_rules,omitempty"`
	MinSampleCoverage *float64 `json:"min_sample_coverage,omitempty"`
}
