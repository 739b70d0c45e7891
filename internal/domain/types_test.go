package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() *TestDefinition {
	critLow := 3.0
	critHigh := 20.0
	return &TestDefinition{
		Code:     "SAMPLE",
		Name:     "Sample Test",
		Category: "chemistry",
		Unit:     "mg/dL",
		ReferenceRanges: map[string]ReferenceRange{
			DefaultRangeKey: {Low: 5, High: 10},
		},
		CriticalLow:  &critLow,
		CriticalHigh: &critHigh,
		Templates: map[TemplateKey]InterpretationTemplate{
			TemplateLow:          {Explanation: "low", WhyItMatters: "w", NextSteps: "n"},
			TemplateNormal:       {Explanation: "normal", WhyItMatters: "w", NextSteps: "n"},
			TemplateHigh:         {Explanation: "high", WhyItMatters: "w", NextSteps: "n"},
			TemplateCriticalLow:  {Explanation: "crit low", WhyItMatters: "w", NextSteps: "n"},
			TemplateCriticalHigh: {Explanation: "crit high", WhyItMatters: "w", NextSteps: "n"},
		},
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityAbnormal.Rank())
	assert.Greater(t, SeverityAbnormal.Rank(), SeverityBorderline.Rank())
	assert.Greater(t, SeverityBorderline.Rank(), SeverityNormal.Rank())
	assert.Equal(t, 0, Severity("bogus").Rank())
}

func TestReferenceRangeContains(t *testing.T) {
	r := ReferenceRange{Low: 13.5, High: 17.5}

	assert.True(t, r.Contains(13.5), "lower bound is inclusive")
	assert.True(t, r.Contains(17.5), "upper bound is inclusive")
	assert.True(t, r.Contains(15.0))
	assert.False(t, r.Contains(13.4))
	assert.False(t, r.Contains(17.6))
}

func TestReferenceRangeValidate(t *testing.T) {
	assert.NoError(t, ReferenceRange{Low: 1, High: 2}.Validate())
	assert.NoError(t, ReferenceRange{Low: 2, High: 2}.Validate())
	assert.Error(t, ReferenceRange{Low: 3, High: 2}.Validate())
}

func TestTestDefinitionValidate(t *testing.T) {
	require.NoError(t, validDefinition().Validate())

	tests := []struct {
		name    string
		mutate  func(*TestDefinition)
		wantErr string
	}{
		{
			name:    "missing code",
			mutate:  func(d *TestDefinition) { d.Code = "" },
			wantErr: "code is required",
		},
		{
			name:    "missing name",
			mutate:  func(d *TestDefinition) { d.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing unit",
			mutate:  func(d *TestDefinition) { d.Unit = "" },
			wantErr: "unit is required",
		},
		{
			name: "missing default range",
			mutate: func(d *TestDefinition) {
				d.ReferenceRanges = map[string]ReferenceRange{"male": {Low: 1, High: 2}}
			},
			wantErr: "missing default reference range",
		},
		{
			name: "sex specific missing female range",
			mutate: func(d *TestDefinition) {
				d.SexSpecific = true
				d.ReferenceRanges = map[string]ReferenceRange{"male": {Low: 1, High: 2}}
			},
			wantErr: "missing female reference range",
		},
		{
			name: "inverted reference range",
			mutate: func(d *TestDefinition) {
				d.ReferenceRanges[DefaultRangeKey] = ReferenceRange{Low: 10, High: 5}
			},
			wantErr: "exceeds high",
		},
		{
			name:    "missing required template",
			mutate:  func(d *TestDefinition) { delete(d.Templates, TemplateCriticalLow) },
			wantErr: `missing "critical_low" template`,
		},
		{
			name: "borderline range without template",
			mutate: func(d *TestDefinition) {
				d.BorderlineRange = &ReferenceRange{Low: 10, High: 12}
			},
			wantErr: "borderline range defined without borderline template",
		},
		{
			name: "borderline template without range",
			mutate: func(d *TestDefinition) {
				d.Templates[TemplateBorderline] = InterpretationTemplate{Explanation: "b"}
			},
			wantErr: "borderline template defined without borderline range",
		},
		{
			name: "borderline overlaps normal range",
			mutate: func(d *TestDefinition) {
				d.BorderlineRange = &ReferenceRange{Low: 9, High: 12}
				d.Templates[TemplateBorderline] = InterpretationTemplate{Explanation: "b"}
			},
			wantErr: "overlaps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)
			err := def.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTestDefinitionValidate_BorderlineTouchingNormalHigh(t *testing.T) {
	// A borderline band starting exactly at the normal high is allowed;
	// the higher-priority severity wins for the shared point.
	def := validDefinition()
	def.BorderlineRange = &ReferenceRange{Low: 10, High: 12}
	def.Templates[TemplateBorderline] = InterpretationTemplate{Explanation: "b", WhyItMatters: "w", NextSteps: "n"}

	assert.NoError(t, def.Validate())
}

func TestReferenceRangeFor(t *testing.T) {
	def := validDefinition()
	def.SexSpecific = true
	def.ReferenceRanges = map[string]ReferenceRange{
		"male":   {Low: 13.5, High: 17.5},
		"female": {Low: 12.0, High: 15.5},
	}

	assert.Equal(t, ReferenceRange{Low: 13.5, High: 17.5}, def.ReferenceRangeFor(SexMale))
	assert.Equal(t, ReferenceRange{Low: 12.0, High: 15.5}, def.ReferenceRangeFor(SexFemale))

	def.SexSpecific = false
	def.ReferenceRanges = map[string]ReferenceRange{DefaultRangeKey: {Low: 1, High: 2}}
	assert.Equal(t, ReferenceRange{Low: 1, High: 2}, def.ReferenceRangeFor(SexMale))
}

func TestUnitConversionApply(t *testing.T) {
	multiply := UnitConversion{Kind: ConversionMultiply, Factor: 18.0}
	assert.InDelta(t, 117.0, multiply.Apply(6.5), 1e-9)

	affine := UnitConversion{Kind: ConversionAffine, Factor: 0.0915, Offset: 2.15}
	assert.InDelta(t, 6.542, affine.Apply(48.0), 1e-9)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&PediatricNotSupportedError{Age: 10, MinAge: 18}))
	assert.True(t, IsClientError(&UnsupportedConversionError{TestCode: "HB", FromUnit: "mmol/L", ToUnit: "g/dL"}))
	assert.True(t, IsClientError(&UnknownTestError{Code: "XYZ"}))
	assert.False(t, IsClientError(assert.AnError))
}

func TestPediatricErrorMessage(t *testing.T) {
	err := &PediatricNotSupportedError{Age: 12, MinAge: 18}
	assert.Equal(t,
		"pediatric lab interpretation is not supported: this system is designed for adult patients only (age 18+)",
		err.Error())
}
