// Package mcp exposes the interpretation engine to AI agents over the Model
// Context Protocol. The same engine serves HTTP and MCP; this layer only
// translates tool calls.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/service"
)

// Server wraps the MCP SDK server with the interpretation tool set.
type Server struct {
	logger    *logrus.Logger
	mcpServer *mcp.Server
	registry  domain.TestRegistry
	batch     *service.BatchService
	converter *service.ConverterService
}

// InterpretResultsParams is the input schema of the interpret_results tool.
type InterpretResultsParams struct {
	Age     int                   `json:"age" jsonschema:"patient age in years; must be 18 or older"`
	Sex     string                `json:"sex" jsonschema:"patient biological sex: male or female"`
	Results []service.ResultInput `json:"results" jsonschema:"lab results to interpret"`
}

// InterpretResultsResult is the structured output of interpret_results.
type InterpretResultsResult struct {
	Summary          domain.Summary           `json:"summary"`
	Interpretations  []*domain.Interpretation `json:"interpretations"`
	UnsupportedTests []string                 `json:"unsupported_tests,omitempty"`
	Disclaimer       string                   `json:"disclaimer"`
}

// ConvertUnitParams is the input schema of the convert_unit tool.
type ConvertUnitParams struct {
	TestCode string  `json:"test_code" jsonschema:"registered test code, e.g. FBG"`
	Value    float64 `json:"value" jsonschema:"value to convert"`
	FromUnit string  `json:"from_unit" jsonschema:"unit the value is expressed in"`
}

// ConvertUnitResult is the structured output of convert_unit.
type ConvertUnitResult struct {
	TestCode       string  `json:"test_code"`
	OriginalValue  float64 `json:"original_value"`
	OriginalUnit   string  `json:"original_unit"`
	ConvertedValue float64 `json:"converted_value"`
	ConvertedUnit  string  `json:"converted_unit"`
}

// ListTestsParams is the (empty) input schema of list_supported_tests.
type ListTestsParams struct{}

// ListTestsResult is the structured output of list_supported_tests.
type ListTestsResult struct {
	SupportedTests []domain.TestInfo `json:"supported_tests"`
	Count          int               `json:"count"`
}

// NewServer creates the MCP server and registers the tool set.
func NewServer(logger *logrus.Logger, registry domain.TestRegistry, batch *service.BatchService, converter *service.ConverterService) *Server {
	s := &Server{
		logger:    logger,
		registry:  registry,
		batch:     batch,
		converter: converter,
	}

	impl := &mcp.Implementation{
		Name:    "lab-interpretation-server",
		Version: "v1.0.0",
	}
	s.mcpServer = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "interpret_results",
		Description: "Interpret a batch of lab results for an adult patient. Returns a per-test " +
			"classification (status, severity, patient-facing explanation) and a severity summary. " +
			"Educational information only, never a diagnosis.",
	}, s.handleInterpretResults)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "convert_unit",
		Description: "Convert a lab value from a supported alternate unit into the test's primary " +
			"unit. Only explicitly registered conversions are supported.",
	}, s.handleConvertUnit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_supported_tests",
		Description: "List every supported lab test with its code, name, category, and primary unit.",
	}, s.handleListTests)

	s.logger.WithField("tool_count", 3).Info("Registered MCP tools")
}

func (s *Server) handleInterpretResults(ctx context.Context, req *mcp.CallToolRequest, params InterpretResultsParams) (*mcp.CallToolResult, InterpretResultsResult, error) {
	sex := domain.Sex(params.Sex)
	if !sex.IsValid() {
		return nil, InterpretResultsResult{}, fmt.Errorf("invalid sex %q: must be male or female", params.Sex)
	}

	result, err := s.batch.InterpretBatch(&service.InterpretBatchParams{
		Age:     params.Age,
		Sex:     sex,
		Results: params.Results,
	})
	if err != nil {
		return nil, InterpretResultsResult{}, err
	}

	return nil, InterpretResultsResult{
		Summary:          result.Summary,
		Interpretations:  result.Interpretations,
		UnsupportedTests: result.UnsupportedTests,
		Disclaimer:       domain.MedicalDisclaimer,
	}, nil
}

func (s *Server) handleConvertUnit(ctx context.Context, req *mcp.CallToolRequest, params ConvertUnitParams) (*mcp.CallToolResult, ConvertUnitResult, error) {
	converted, unit, err := s.converter.Convert(params.TestCode, params.Value, params.FromUnit)
	if err != nil {
		return nil, ConvertUnitResult{}, err
	}

	return nil, ConvertUnitResult{
		TestCode:       params.TestCode,
		OriginalValue:  params.Value,
		OriginalUnit:   params.FromUnit,
		ConvertedValue: converted,
		ConvertedUnit:  unit,
	}, nil
}

func (s *Server) handleListTests(ctx context.Context, req *mcp.CallToolRequest, params ListTestsParams) (*mcp.CallToolResult, ListTestsResult, error) {
	tests := s.registry.List()
	return nil, ListTestsResult{
		SupportedTests: tests,
		Count:          len(tests),
	}, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server on stdio")
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
