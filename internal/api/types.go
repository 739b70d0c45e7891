package api

import (
	"time"

	"github.com/lab-interpretation-server/internal/domain"
)

// PatientInput identifies the patient context for interpretation. Age is
// validated for plausibility here; the adult-only guardrail itself lives in
// the engine so its message is uniform across transports.
type PatientInput struct {
	Age int    `json:"age" binding:"min=0,max=120"`
	Sex string `json:"sex" binding:"required,oneof=male female"`
}

// ResultInput is one submitted lab result. Value is a pointer so that an
// omitted value is distinguishable from a legitimate zero.
type ResultInput struct {
	TestCode string   `json:"test_code" binding:"required"`
	Value    *float64 `json:"value" binding:"required"`
	Unit     string   `json:"unit"`
}

// InterpretRequest is the body of POST /api/v1/interpret.
type InterpretRequest struct {
	Patient PatientInput  `json:"patient" binding:"required"`
	Results []ResultInput `json:"results" binding:"required,min=1,max=100,dive"`
}

// WarningsOutput reports inputs that were skipped rather than failed.
type WarningsOutput struct {
	UnsupportedTests []string `json:"unsupported_tests"`
}

// InterpretResponse is the full interpretation payload. InterpretationID is
// present only when history persistence is enabled.
type InterpretResponse struct {
	InterpretationID string                   `json:"interpretation_id,omitempty"`
	Summary          domain.Summary           `json:"summary"`
	Interpretations  []*domain.Interpretation `json:"interpretations"`
	Warnings         *WarningsOutput          `json:"warnings,omitempty"`
	Disclaimer       string                   `json:"disclaimer"`
}

// ListTestsResponse is the body of GET /api/v1/tests.
type ListTestsResponse struct {
	SupportedTests []domain.TestInfo `json:"supported_tests"`
	Count          int               `json:"count"`
}

// ConvertRequest is the body of POST /api/v1/convert.
type ConvertRequest struct {
	TestCode string   `json:"test_code" binding:"required"`
	Value    *float64 `json:"value" binding:"required"`
	FromUnit string   `json:"from_unit" binding:"required"`
}

// ConvertResponse reports the value converted into the test's primary unit.
type ConvertResponse struct {
	TestCode       string  `json:"test_code"`
	OriginalValue  float64 `json:"original_value"`
	OriginalUnit   string  `json:"original_unit"`
	ConvertedValue float64 `json:"converted_value"`
	ConvertedUnit  string  `json:"converted_unit"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// CriticalAlertMessage is pushed to websocket subscribers whenever a batch
// produces at least one critical result.
type CriticalAlertMessage struct {
	Type          string      `json:"type"`
	CorrelationID string      `json:"correlation_id"`
	Findings      interface{} `json:"findings"`
	Timestamp     time.Time   `json:"timestamp"`
}
