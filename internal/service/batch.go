package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
)

// ResultInput is one raw lab result as submitted by the caller. Unit may be
// an alternate unit registered for the test; empty means the primary unit.
type ResultInput struct {
	TestCode string  `json:"test_code"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
}

// InterpretBatchParams carries a full interpretation request.
type InterpretBatchParams struct {
	Age     int           `json:"age"`
	Sex     domain.Sex    `json:"sex"`
	Results []ResultInput `json:"results"`
}

// CriticalFinding records one critical result for alerting and audit.
type CriticalFinding struct {
	TestCode  string                   `json:"test_code"`
	TestName  string                   `json:"test_name"`
	Value     float64                  `json:"value"`
	Unit      string                   `json:"unit"`
	Direction domain.CriticalDirection `json:"direction"`
}

// InterpretBatchResult is the engine-level outcome of a batch request.
type InterpretBatchResult struct {
	Interpretations  []*domain.Interpretation `json:"interpretations"`
	Summary          domain.Summary           `json:"summary"`
	UnsupportedTests []string                 `json:"unsupported_tests,omitempty"`
	CriticalFindings []CriticalFinding        `json:"critical_findings,omitempty"`
}

// BatchService orchestrates the full interpretation workflow: the age
// guardrail, unsupported-test filtering, unit conversion, per-result
// interpretation, and the summary rollup.
type BatchService struct {
	logger      *logrus.Logger
	registry    domain.TestRegistry
	interpreter *InterpreterService
	converter   *ConverterService
}

// NewBatchService creates a new batch workflow over the shared registry.
func NewBatchService(logger *logrus.Logger, registry domain.TestRegistry, interpreter *InterpreterService, converter *ConverterService) *BatchService {
	return &BatchService{
		logger:      logger,
		registry:    registry,
		interpreter: interpreter,
		converter:   converter,
	}
}

// InterpretBatch processes a batch of results for one patient.
//
// The age guardrail runs first and gates the whole batch. Unknown test codes
// are never silently dropped: they are skipped and reported back in
// UnsupportedTests. A result submitted in an alternate unit is converted to
// the test's primary unit before classification; an unconvertible unit fails
// the whole request rather than risk interpreting a value against the wrong
// scale.
func (s *BatchService) InterpretBatch(params *InterpretBatchParams) (*InterpretBatchResult, error) {
	if err := s.interpreter.ValidateAge(params.Age); err != nil {
		return nil, err
	}

	interpretations := make([]*domain.Interpretation, 0, len(params.Results))
	var unsupported []string
	var criticals []CriticalFinding

	for _, result := range params.Results {
		code := strings.ToUpper(strings.TrimSpace(result.TestCode))

		def, ok := s.registry.Lookup(code)
		if !ok {
			unsupported = append(unsupported, result.TestCode)
			s.logger.WithField("test_code", result.TestCode).Info("Skipped unsupported test code")
			continue
		}

		value := result.Value
		if result.Unit != "" && result.Unit != def.Unit {
			converted, _, err := s.converter.Convert(code, result.Value, result.Unit)
			if err != nil {
				return nil, err
			}
			value = converted
		}

		interp, err := s.interpreter.InterpretResult(code, value, params.Age, params.Sex)
		if err != nil {
			return nil, err
		}
		interpretations = append(interpretations, interp)

		if interp.Severity == domain.SeverityCritical {
			_, direction := checkCritical(def, value)
			criticals = append(criticals, CriticalFinding{
				TestCode:  interp.TestCode,
				TestName:  interp.TestName,
				Value:     interp.Value,
				Unit:      interp.Unit,
				Direction: direction,
			})
		}
	}

	summary := Summarize(interpretations)

	s.logger.WithFields(logrus.Fields{
		"evaluated":      summary.EvaluatedCount,
		"overall_flag":   summary.OverallFlag,
		"critical_alert": summary.CriticalAlert,
		"unsupported":    len(unsupported),
	}).Info("Interpretation batch completed")

	return &InterpretBatchResult{
		Interpretations:  interpretations,
		Summary:          summary,
		UnsupportedTests: unsupported,
		CriticalFindings: criticals,
	}, nil
}
