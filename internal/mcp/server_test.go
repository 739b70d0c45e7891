package mcp

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/registry"
	"github.com/lab-interpretation-server/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg, err := registry.New(logger)
	require.NoError(t, err)

	interpreter := service.NewInterpreterService(logger, reg, 0)
	converter := service.NewConverterService(logger, reg)
	batch := service.NewBatchService(logger, reg, interpreter, converter)

	return NewServer(logger, reg, batch, converter)
}

func TestHandleInterpretResults(t *testing.T) {
	server := newTestServer(t)

	_, result, err := server.handleInterpretResults(context.Background(), nil, InterpretResultsParams{
		Age: 35,
		Sex: "male",
		Results: []service.ResultInput{
			{TestCode: "HB", Value: 6.5},
			{TestCode: "TSH", Value: 2.5},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Summary.CriticalAlert)
	require.Len(t, result.Interpretations, 1)
	assert.Equal(t, domain.SeverityCritical, result.Interpretations[0].Severity)
	assert.Equal(t, []string{"TSH"}, result.UnsupportedTests)
	assert.Equal(t, domain.MedicalDisclaimer, result.Disclaimer)
}

func TestHandleInterpretResults_InvalidSex(t *testing.T) {
	server := newTestServer(t)

	_, _, err := server.handleInterpretResults(context.Background(), nil, InterpretResultsParams{
		Age: 35,
		Sex: "unknown",
		Results: []service.ResultInput{
			{TestCode: "HB", Value: 14.0},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sex")
}

func TestHandleInterpretResults_Pediatric(t *testing.T) {
	server := newTestServer(t)

	_, _, err := server.handleInterpretResults(context.Background(), nil, InterpretResultsParams{
		Age: 16,
		Sex: "female",
		Results: []service.ResultInput{
			{TestCode: "HB", Value: 13.0},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adult patients only")
}

func TestHandleConvertUnit(t *testing.T) {
	server := newTestServer(t)

	_, result, err := server.handleConvertUnit(context.Background(), nil, ConvertUnitParams{
		TestCode: "FBG",
		Value:    6.5,
		FromUnit: "mmol/L",
	})
	require.NoError(t, err)
	assert.InDelta(t, 117.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, "mg/dL", result.ConvertedUnit)

	_, _, err = server.handleConvertUnit(context.Background(), nil, ConvertUnitParams{
		TestCode: "FBG",
		Value:    6.5,
		FromUnit: "g/L",
	})
	require.Error(t, err)
}

func TestHandleListTests(t *testing.T) {
	server := newTestServer(t)

	_, result, err := server.handleListTests(context.Background(), nil, ListTestsParams{})
	require.NoError(t, err)
	assert.Equal(t, 15, result.Count)
	assert.Len(t, result.SupportedTests, 15)
}
