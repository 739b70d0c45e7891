package registry

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-interpretation-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func validDefinition(code string) *domain.TestDefinition {
	return &domain.TestDefinition{
		Code:     code,
		Name:     "Test " + code,
		Category: "Hematology",
		Unit:     "g/dL",
		ReferenceRanges: map[string]domain.ReferenceRange{
			domain.DefaultRangeKey: {Low: 1.0, High: 10.0},
		},
		Templates: map[domain.TemplateKey]domain.InterpretationTemplate{
			domain.TemplateLow:          {Explanation: "low", WhyItMatters: "w", NextSteps: "n"},
			domain.TemplateNormal:       {Explanation: "normal", WhyItMatters: "w", NextSteps: "n"},
			domain.TemplateHigh:         {Explanation: "high", WhyItMatters: "w", NextSteps: "n"},
			domain.TemplateCriticalLow:  {Explanation: "crit low", WhyItMatters: "w", NextSteps: "n"},
			domain.TemplateCriticalHigh: {Explanation: "crit high", WhyItMatters: "w", NextSteps: "n"},
		},
	}
}

func TestNew_LoadsBuiltInTable(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	expected := []string{
		"ALT", "AST", "CREAT", "FBG", "HB", "HBA1C", "HDL",
		"LDL", "PCV", "PLT", "TBIL", "TCHOL", "TRIG", "UREA", "WBC",
	}
	for _, code := range expected {
		assert.True(t, reg.Has(code), "expected %s to be registered", code)
	}
	assert.False(t, reg.Has("TSH"))
	assert.Len(t, reg.List(), len(expected))
}

func TestNew_ListIsSortedByCode(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	infos := reg.List()
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].Code, infos[i].Code)
	}
}

func TestNew_SexSpecificRanges(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	hb, ok := reg.Lookup("HB")
	require.True(t, ok)
	require.True(t, hb.SexSpecific)

	male := hb.ReferenceRangeFor(domain.SexMale)
	assert.Equal(t, 13.5, male.Low)
	assert.Equal(t, 17.5, male.High)

	female := hb.ReferenceRangeFor(domain.SexFemale)
	assert.Equal(t, 12.0, female.Low)
	assert.Equal(t, 15.5, female.High)
}

func TestNew_CriticalThresholds(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	tests := []struct {
		code     string
		critLow  *float64
		critHigh *float64
	}{
		{"HB", ptr(7.0), ptr(20.0)},
		{"HBA1C", nil, ptr(10.0)},
		{"HDL", ptr(20.0), nil},
		{"ALT", nil, ptr(1000.0)},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			def, ok := reg.Lookup(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.critLow, def.CriticalLow)
			assert.Equal(t, tt.critHigh, def.CriticalHigh)
		})
	}
}

func TestNew_BorderlineBands(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	withBorderline := []string{"FBG", "HBA1C", "TCHOL", "LDL", "TRIG"}
	for _, code := range withBorderline {
		def, ok := reg.Lookup(code)
		require.True(t, ok, code)
		assert.NotNil(t, def.BorderlineRange, "%s should have a borderline band", code)
	}

	hb, _ := reg.Lookup("HB")
	assert.Nil(t, hb.BorderlineRange)
}

func TestNewFromDefinitions_RejectsDuplicateCode(t *testing.T) {
	defs := []*domain.TestDefinition{validDefinition("HB"), validDefinition("HB")}

	_, err := NewFromDefinitions(defs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate test code HB")
}

func TestNewFromDefinitions_RejectsInvalidDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.TestDefinition)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(d *domain.TestDefinition) { d.Name = "" },
			wantErr: "name is required",
		},
		{
			name: "inverted reference range",
			mutate: func(d *domain.TestDefinition) {
				d.ReferenceRanges[domain.DefaultRangeKey] = domain.ReferenceRange{Low: 10.0, High: 1.0}
			},
			wantErr: "low 10 exceeds high 1",
		},
		{
			name: "missing normal template",
			mutate: func(d *domain.TestDefinition) {
				delete(d.Templates, domain.TemplateNormal)
			},
			wantErr: `missing "normal" template`,
		},
		{
			name: "borderline band overlaps normal range",
			mutate: func(d *domain.TestDefinition) {
				d.BorderlineRange = &domain.ReferenceRange{Low: 5.0, High: 15.0}
				d.Templates[domain.TemplateBorderline] = domain.InterpretationTemplate{
					Explanation: "b", WhyItMatters: "w", NextSteps: "n",
				}
			},
			wantErr: "overlaps",
		},
		{
			name: "borderline range without template",
			mutate: func(d *domain.TestDefinition) {
				d.BorderlineRange = &domain.ReferenceRange{Low: 11.0, High: 15.0}
			},
			wantErr: "without borderline template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition("XX")
			tt.mutate(def)

			_, err := NewFromDefinitions([]*domain.TestDefinition{def}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewFromDefinitions_RejectsBadConversions(t *testing.T) {
	defs := []*domain.TestDefinition{validDefinition("XX")}

	t.Run("unknown test", func(t *testing.T) {
		conversions := map[string]map[string]domain.UnitConversion{
			"YY": {"mmol/L": {Kind: domain.ConversionMultiply, Factor: 2.0}},
		}
		_, err := NewFromDefinitions(defs, conversions)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown test YY")
	})

	t.Run("primary unit self-conversion", func(t *testing.T) {
		conversions := map[string]map[string]domain.UnitConversion{
			"XX": {"g/dL": {Kind: domain.ConversionMultiply, Factor: 1.0}},
		}
		_, err := NewFromDefinitions(defs, conversions)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "primary unit")
	})

	t.Run("unknown kind", func(t *testing.T) {
		conversions := map[string]map[string]domain.UnitConversion{
			"XX": {"mmol/L": {Kind: "logarithmic", Factor: 1.0}},
		}
		_, err := NewFromDefinitions(defs, conversions)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown conversion kind")
	})
}

func TestConversion_Lookup(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	conv, ok := reg.Conversion("FBG", "mmol/L")
	require.True(t, ok)
	assert.Equal(t, domain.ConversionMultiply, conv.Kind)
	assert.InDelta(t, 117.0, conv.Apply(6.5), 1e-9)

	conv, ok = reg.Conversion("HBA1C", "mmol/mol")
	require.True(t, ok)
	assert.Equal(t, domain.ConversionAffine, conv.Kind)
	assert.InDelta(t, 6.0, conv.Apply(42.0), 0.05)

	_, ok = reg.Conversion("FBG", "furlongs")
	assert.False(t, ok)

	_, ok = reg.Conversion("HB", "mmol/L")
	assert.False(t, ok)
}

func TestSupportedUnits(t *testing.T) {
	reg, err := New(testLogger())
	require.NoError(t, err)

	units := reg.SupportedUnits("CREAT")
	assert.Equal(t, []string{"umol/L", "µmol/L"}, units)

	assert.Nil(t, reg.SupportedUnits("HB"))
}

func ptr(v float64) *float64 { return &v }
