// Package domain contains the core business entities and types for
// deterministic, rules-based lab result interpretation.
//
// All classification logic built on these types is auditable and
// template-based: no probabilistic models, no learned inference.
// Output is educational only and never a diagnosis.
package domain

import (
	"fmt"
)

// Status represents the position of a value relative to its reference range.
type Status string

const (
	StatusLow    Status = "LOW"
	StatusNormal Status = "NORMAL"
	StatusHigh   Status = "HIGH"
)

// Severity represents the clinical urgency classification of a result.
// It is distinct from Status: a LOW value may be ABNORMAL or CRITICAL
// depending on critical thresholds.
type Severity string

const (
	SeverityNormal     Severity = "NORMAL"
	SeverityBorderline Severity = "BORDERLINE"
	SeverityAbnormal   Severity = "ABNORMAL"
	SeverityCritical   Severity = "CRITICAL"
)

// Sex represents the patient's biological sex used for reference range
// selection on sex-dimorphic tests.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// CriticalDirection indicates which critical threshold a value crossed.
type CriticalDirection string

const (
	CriticalDirectionLow  CriticalDirection = "low"
	CriticalDirectionHigh CriticalDirection = "high"
)

// TemplateKey selects one of the fixed patient-explanation templates of a
// test definition.
type TemplateKey string

const (
	TemplateLow          TemplateKey = "low"
	TemplateNormal       TemplateKey = "normal"
	TemplateHigh         TemplateKey = "high"
	TemplateBorderline   TemplateKey = "borderline"
	TemplateCriticalLow  TemplateKey = "critical_low"
	TemplateCriticalHigh TemplateKey = "critical_high"
)

// DefaultRangeKey is the reference range key for tests without sex-specific
// ranges.
const DefaultRangeKey = "default"

// MinSupportedAge is the minimum patient age (in years) this system
// interprets results for. Pediatric reference ranges differ materially from
// adult ranges; interpreting a minor's results against adult ranges would
// produce an unsafe false signal, so the engine refuses wholesale.
const MinSupportedAge = 18

// CriticalSafetyTemplate is the fixed safety messaging substituted for every
// CRITICAL result. Per-test templates are never shown for critical results
// so that urgent-action language is uniform and cannot be diluted by
// reassuring detail.
var CriticalSafetyTemplate = InterpretationTemplate{
	Explanation:  "This result is outside the safe range and requires immediate medical attention.",
	WhyItMatters: "Values at this level may indicate a serious medical condition.",
	NextSteps:    "Seek urgent medical attention immediately. Contact your healthcare provider or go to the nearest emergency facility.",
}

// MedicalDisclaimer is attached verbatim to every interpretation response.
const MedicalDisclaimer = "This information is for educational purposes only and does not replace " +
	"professional medical advice, diagnosis, or treatment. Always consult a " +
	"qualified healthcare provider with questions about your health or lab results."

// IsValid reports whether the status is one of the three defined values.
func (s Status) IsValid() bool {
	switch s {
	case StatusLow, StatusNormal, StatusHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the severity is one of the four defined values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNormal, SeverityBorderline, SeverityAbnormal, SeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Rank returns the summary precedence of the severity: CRITICAL > ABNORMAL >
// BORDERLINE > NORMAL. This is the cross-result rollup ordering; within a
// single result BORDERLINE and ABNORMAL are mutually exclusive.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityAbnormal:
		return 2
	case SeverityBorderline:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether the sex is one of the supported values.
func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sex.
func (s Sex) String() string {
	return string(s)
}

// ReferenceRange is the inclusive band of values considered typical for a
// test.
type ReferenceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Validate ensures the range is well-formed.
func (r ReferenceRange) Validate() error {
	if r.Low > r.High {
		return fmt.Errorf("reference range low %g exceeds high %g", r.Low, r.High)
	}
	return nil
}

// Contains reports whether the value falls inside the range, inclusive at
// both ends.
func (r ReferenceRange) Contains(value float64) bool {
	return value >= r.Low && value <= r.High
}

// InterpretationTemplate is the fixed patient-facing explanation triple for
// one classification outcome of one test.
type InterpretationTemplate struct {
	Explanation  string `json:"explanation"`
	WhyItMatters string `json:"why_it_matters"`
	NextSteps    string `json:"next_steps"`
}

// TestDefinition describes one supported lab test: its display metadata,
// reference ranges, critical thresholds, and explanation templates. Test
// definitions are immutable after registry construction.
type TestDefinition struct {
	Code        string
	Name        string
	Category    string
	Unit        string
	SexSpecific bool

	// ReferenceRanges is keyed by "male"/"female" for sex-specific tests,
	// or by DefaultRangeKey otherwise.
	ReferenceRanges map[string]ReferenceRange

	// BorderlineRange flags "at risk but not abnormal yet" for select tests
	// (glucose, HbA1c, cholesterol family). It sits strictly above the
	// normal range; only the high side is ever checked.
	BorderlineRange *ReferenceRange

	// CriticalLow / CriticalHigh preempt all other classification when
	// crossed. Either may be absent.
	CriticalLow  *float64
	CriticalHigh *float64

	Templates map[TemplateKey]InterpretationTemplate
}

// ReferenceRangeFor resolves the reference range for a patient. Sex-specific
// tests use the sex-appropriate band; all others use the default band.
func (d *TestDefinition) ReferenceRangeFor(sex Sex) ReferenceRange {
	if d.SexSpecific {
		return d.ReferenceRanges[string(sex)]
	}
	return d.ReferenceRanges[DefaultRangeKey]
}

// requiredTemplates must be present on every test definition. The borderline
// template is required only when a borderline range is defined.
var requiredTemplates = []TemplateKey{
	TemplateLow, TemplateNormal, TemplateHigh, TemplateCriticalLow, TemplateCriticalHigh,
}

// Validate enforces the registry load-time invariants for a single test
// definition. A failure here is a configuration error: the registry refuses
// to construct rather than risk misclassification at request time.
func (d *TestDefinition) Validate() error {
	if d.Code == "" {
		return fmt.Errorf("test definition validation: code is required")
	}
	if d.Name == "" {
		return fmt.Errorf("test definition validation for %s: name is required", d.Code)
	}
	if d.Unit == "" {
		return fmt.Errorf("test definition validation for %s: unit is required", d.Code)
	}

	if d.SexSpecific {
		for _, sex := range []Sex{SexMale, SexFemale} {
			if _, ok := d.ReferenceRanges[string(sex)]; !ok {
				return fmt.Errorf("test definition validation for %s: missing %s reference range", d.Code, sex)
			}
		}
	} else {
		if _, ok := d.ReferenceRanges[DefaultRangeKey]; !ok {
			return fmt.Errorf("test definition validation for %s: missing default reference range", d.Code)
		}
	}

	for key, rr := range d.ReferenceRanges {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("test definition validation for %s (%s): %w", d.Code, key, err)
		}
	}

	for _, key := range requiredTemplates {
		if _, ok := d.Templates[key]; !ok {
			return fmt.Errorf("test definition validation for %s: missing %q template", d.Code, key)
		}
	}

	if d.BorderlineRange != nil {
		if err := d.BorderlineRange.Validate(); err != nil {
			return fmt.Errorf("test definition validation for %s (borderline): %w", d.Code, err)
		}
		if _, ok := d.Templates[TemplateBorderline]; !ok {
			return fmt.Errorf("test definition validation for %s: borderline range defined without borderline template", d.Code)
		}
		// The borderline band must sit at or above every normal band's upper
		// bound, otherwise the severity priority logic would silently
		// misclassify values between the two bands.
		for key, rr := range d.ReferenceRanges {
			if d.BorderlineRange.Low < rr.High {
				return fmt.Errorf("test definition validation for %s: borderline range low %g overlaps %s reference range high %g",
					d.Code, d.BorderlineRange.Low, key, rr.High)
			}
		}
	} else if _, ok := d.Templates[TemplateBorderline]; ok {
		return fmt.Errorf("test definition validation for %s: borderline template defined without borderline range", d.Code)
	}

	return nil
}

// TestInfo is the read-only listing view of a test definition.
type TestInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	SexSpecific bool   `json:"sex_specific"`
}

// Interpretation is the structured output for a single processed result.
// Created fresh per call, immutable once returned, never persisted by the
// engine itself.
type Interpretation struct {
	TestCode       string   `json:"test_code"`
	TestName       string   `json:"test_name"`
	Value          float64  `json:"value"`
	Unit           string   `json:"unit"`
	Status         Status   `json:"status"`
	Severity       Severity `json:"severity"`
	ReferenceRange string   `json:"reference_range"`
	Explanation    string   `json:"explanation"`
	WhyItMatters   string   `json:"why_it_matters"`
	NextSteps      string   `json:"next_steps"`
}

// Summary is the severity rollup across a batch of interpretations. It is
// recomputed from scratch on every call, never updated incrementally.
// EvaluatedCount distinguishes "no results interpreted" from "all results
// normal", which would otherwise be indistinguishable.
type Summary struct {
	OverallFlag     Severity `json:"overall_flag"`
	CriticalAlert   bool     `json:"critical_alert"`
	CriticalCount   int      `json:"critical_count"`
	AbnormalCount   int      `json:"abnormal_count"`
	BorderlineCount int      `json:"borderline_count"`
	NormalCount     int      `json:"normal_count"`
	EvaluatedCount  int      `json:"evaluated_count"`
}

// ConversionKind names the arithmetic form of a registered unit conversion.
// Only explicitly registered (test, unit) pairs convert; there is no generic
// dimensional-analysis fallback, so every conversion stays auditable.
type ConversionKind string

const (
	// ConversionMultiply converts as value * factor.
	ConversionMultiply ConversionKind = "multiply"
	// ConversionAffine converts as value * factor + offset. Used for tests
	// whose primary-to-alternate relationship is not a pure ratio
	// (currently HbA1c mmol/mol to %).
	ConversionAffine ConversionKind = "affine"
)

// UnitConversion converts a value from one registered alternate unit to the
// test's primary unit.
type UnitConversion struct {
	Kind   ConversionKind
	Factor float64
	Offset float64
}

// Apply performs the conversion arithmetic.
func (c UnitConversion) Apply(value float64) float64 {
	switch c.Kind {
	case ConversionAffine:
		return value*c.Factor + c.Offset
	default:
		return value * c.Factor
	}
}
