package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-interpretation-server/internal/domain"
)

func newTestConverter(t *testing.T) *ConverterService {
	t.Helper()
	return NewConverterService(testLogger(), testRegistry(t))
}

func TestConvert_GlucoseMmolPerL(t *testing.T) {
	converter := newTestConverter(t)

	value, unit, err := converter.Convert("FBG", 6.5, "mmol/L")
	require.NoError(t, err)
	assert.Equal(t, "mg/dL", unit)
	assert.InDelta(t, 117.0, value, 1e-9)
}

func TestConvert_CreatinineMicromolPerL(t *testing.T) {
	converter := newTestConverter(t)

	// Both micro-prefix spellings are accepted.
	for _, fromUnit := range []string{"µmol/L", "umol/L"} {
		value, unit, err := converter.Convert("CREAT", 88.4, fromUnit)
		require.NoError(t, err, fromUnit)
		assert.Equal(t, "mg/dL", unit)
		assert.InDelta(t, 0.99892, value, 1e-5)
	}
}

func TestConvert_HbA1cAffine(t *testing.T) {
	converter := newTestConverter(t)

	value, unit, err := converter.Convert("HBA1C", 42.0, "mmol/mol")
	require.NoError(t, err)
	assert.Equal(t, "%", unit)
	assert.InDelta(t, 42.0*0.0915+2.15, value, 1e-9)
}

func TestConvert_PrimaryUnitIsIdentity(t *testing.T) {
	converter := newTestConverter(t)

	value, unit, err := converter.Convert("FBG", 95.0, "mg/dL")
	require.NoError(t, err)
	assert.Equal(t, "mg/dL", unit)
	assert.Equal(t, 95.0, value)
}

func TestConvert_UnknownTest(t *testing.T) {
	converter := newTestConverter(t)

	_, _, err := converter.Convert("TSH", 2.5, "mIU/L")
	require.Error(t, err)

	var unknown *domain.UnknownTestError
	assert.ErrorAs(t, err, &unknown)
}

func TestConvert_UnsupportedUnit(t *testing.T) {
	converter := newTestConverter(t)

	_, _, err := converter.Convert("FBG", 6.5, "g/L")
	require.Error(t, err)

	var unsupported *domain.UnsupportedConversionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "FBG", unsupported.TestCode)
	assert.Equal(t, []string{"mmol/L"}, unsupported.Supported)
	assert.Contains(t, err.Error(), "supported units are mg/dL, mmol/L")
	assert.True(t, domain.IsClientError(err))
}

func TestConvert_TestWithNoAlternateUnits(t *testing.T) {
	converter := newTestConverter(t)

	_, _, err := converter.Convert("HB", 8.0, "mmol/L")
	require.Error(t, err)

	var unsupported *domain.UnsupportedConversionError
	require.ErrorAs(t, err, &unsupported)
	assert.Empty(t, unsupported.Supported)
	assert.Contains(t, err.Error(), "expected unit g/dL, received mmol/L")
}
