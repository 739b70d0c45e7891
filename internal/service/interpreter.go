// Package service implements the deterministic lab interpretation engine:
// threshold classification, severity escalation, critical-result lockout,
// unit conversion, and batch summarization. Every path through the engine is
// a pure function of the request and the test registry; the same inputs
// always produce the same outputs.
package service

import (
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
)

// InterpreterService classifies lab values against the test registry and
// renders patient-facing explanations.
type InterpreterService struct {
	logger   *logrus.Logger
	registry domain.TestRegistry
	minAge   int
}

// NewInterpreterService creates a new interpretation engine. minAge <= 0
// falls back to the built-in adult threshold.
func NewInterpreterService(logger *logrus.Logger, registry domain.TestRegistry, minAge int) *InterpreterService {
	if minAge <= 0 {
		minAge = domain.MinSupportedAge
	}
	return &InterpreterService{
		logger:   logger,
		registry: registry,
		minAge:   minAge,
	}
}

// ValidateAge enforces the adult-only guardrail. It runs before any result
// in a batch is touched, so a rejected batch produces zero interpretations.
func (s *InterpreterService) ValidateAge(age int) error {
	if age < s.minAge {
		s.logger.WithFields(logrus.Fields{
			"patient_age": age,
			"min_age":     s.minAge,
		}).Warn("Rejected pediatric interpretation request")
		return &domain.PediatricNotSupportedError{Age: age, MinAge: s.minAge}
	}
	return nil
}

// InterpretResult classifies a single value, already expressed in the test's
// primary unit, and assembles the patient-facing interpretation.
//
// Classification order is fixed: age guardrail, registry lookup, critical
// thresholds, range status, severity, template selection. Critical results
// always receive the fixed safety messaging regardless of the per-test
// templates.
func (s *InterpreterService) InterpretResult(testCode string, value float64, age int, sex domain.Sex) (*domain.Interpretation, error) {
	if err := s.ValidateAge(age); err != nil {
		return nil, err
	}

	def, ok := s.registry.Lookup(testCode)
	if !ok {
		return nil, &domain.UnknownTestError{Code: testCode}
	}

	refRange := def.ReferenceRangeFor(sex)
	critical, direction := checkCritical(def, value)
	status := classifyStatus(refRange, value)
	severity := classifySeverity(def, value, status, critical)

	if critical {
		s.logger.WithFields(logrus.Fields{
			"test_code": def.Code,
			"value":     value,
			"unit":      def.Unit,
			"direction": direction,
		}).Warn("Critical result detected")
	}

	template := s.selectTemplate(def, status, severity)

	return &domain.Interpretation{
		TestCode:       def.Code,
		TestName:       def.Name,
		Value:          value,
		Unit:           def.Unit,
		Status:         status,
		Severity:       severity,
		ReferenceRange: formatReferenceRange(refRange, def.Unit),
		Explanation:    template.Explanation,
		WhyItMatters:   template.WhyItMatters,
		NextSteps:      template.NextSteps,
	}, nil
}

// selectTemplate maps the classification outcome to one explanation triple.
// CRITICAL results bypass the per-test templates entirely: the fixed safety
// messaging is returned so urgent-action language is never diluted.
func (s *InterpreterService) selectTemplate(def *domain.TestDefinition, status domain.Status, severity domain.Severity) domain.InterpretationTemplate {
	if severity == domain.SeverityCritical {
		return domain.CriticalSafetyTemplate
	}
	if severity == domain.SeverityBorderline {
		return def.Templates[domain.TemplateBorderline]
	}
	switch status {
	case domain.StatusLow:
		return def.Templates[domain.TemplateLow]
	case domain.StatusHigh:
		return def.Templates[domain.TemplateHigh]
	default:
		return def.Templates[domain.TemplateNormal]
	}
}

// checkCritical tests the value against the critical thresholds, inclusive
// at both bounds. Critical classification preempts everything else.
func checkCritical(def *domain.TestDefinition, value float64) (bool, domain.CriticalDirection) {
	if def.CriticalLow != nil && value <= *def.CriticalLow {
		return true, domain.CriticalDirectionLow
	}
	if def.CriticalHigh != nil && value >= *def.CriticalHigh {
		return true, domain.CriticalDirectionHigh
	}
	return false, ""
}

// classifyStatus places the value relative to the reference range. Both
// bounds are inclusive: a value exactly on a bound is NORMAL.
func classifyStatus(r domain.ReferenceRange, value float64) domain.Status {
	switch {
	case value < r.Low:
		return domain.StatusLow
	case value <= r.High:
		return domain.StatusNormal
	default:
		return domain.StatusHigh
	}
}

// classifySeverity applies the escalation priority: CRITICAL, then
// BORDERLINE (high side only, for tests with a borderline band), then
// ABNORMAL, then NORMAL.
func classifySeverity(def *domain.TestDefinition, value float64, status domain.Status, critical bool) domain.Severity {
	if critical {
		return domain.SeverityCritical
	}
	if status == domain.StatusHigh && def.BorderlineRange != nil && def.BorderlineRange.Contains(value) {
		return domain.SeverityBorderline
	}
	if status != domain.StatusNormal {
		return domain.SeverityAbnormal
	}
	return domain.SeverityNormal
}

// formatReferenceRange renders the range as "low - high unit". Whole-number
// bounds print without a decimal, everything else with one decimal place.
func formatReferenceRange(r domain.ReferenceRange, unit string) string {
	return formatBound(r.Low) + " - " + formatBound(r.High) + " " + unit
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
