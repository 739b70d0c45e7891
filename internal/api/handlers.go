package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/audit"
	"github.com/lab-interpretation-server/internal/cache"
	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/repository"
	"github.com/lab-interpretation-server/internal/service"
)

// internalErrorMessage is the opaque body returned for unexpected failures.
// Internal detail never leaks to the caller.
const internalErrorMessage = "An error occurred processing your request. Please try again."

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "Lab Result Interpretation Engine",
		"status":     "operational",
		"version":    "1.0.0",
		"timestamp":  time.Now().UTC(),
		"compliance": "Educational use only - not for diagnosis",
	})
}

// handleListTests returns every registered test's metadata.
func (s *Server) handleListTests(c *gin.Context) {
	tests := s.deps.Registry.List()
	c.JSON(http.StatusOK, ListTestsResponse{
		SupportedTests: tests,
		Count:          len(tests),
	})
}

// handleInterpret processes a batch interpretation request.
func (s *Server) handleInterpret(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	var req InterpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         "invalid request: " + err.Error(),
			CorrelationID: correlationID,
		})
		return
	}

	params := toBatchParams(&req)

	// The engine is deterministic, so identical requests can be answered
	// from cache verbatim. Findings travel with the cached body: a critical
	// result served from cache must still be audited and streamed.
	var cacheKey string
	if s.deps.Cache != nil {
		cacheKey = cache.Key(params)
		if payload, ok := s.deps.Cache.Get(c.Request.Context(), cacheKey); ok {
			var entry cacheEnvelope
			if err := json.Unmarshal(payload, &entry); err != nil {
				s.logger.WithError(err).Warn("Recomputing response for malformed cache entry")
			} else {
				s.emitCriticalFindings(c, params, entry.Findings)
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Body)
				return
			}
		}
	}

	result, err := s.deps.Batch.InterpretBatch(params)
	if err != nil {
		s.recordRejection(c, params, err)
		s.respondError(c, err, correlationID)
		return
	}

	resp := InterpretResponse{
		Summary:         result.Summary,
		Interpretations: result.Interpretations,
		Disclaimer:      domain.MedicalDisclaimer,
	}
	if len(result.UnsupportedTests) > 0 {
		resp.Warnings = &WarningsOutput{UnsupportedTests: result.UnsupportedTests}
	}

	s.emitCriticalFindings(c, params, result.CriticalFindings)
	s.persistHistory(c, params, &resp)

	if s.deps.Cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			entry := cacheEnvelope{Body: body, Findings: result.CriticalFindings}
			if payload, err := json.Marshal(entry); err == nil {
				s.deps.Cache.Set(c.Request.Context(), cacheKey, payload)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// handleConvert converts a value into a test's primary unit without
// interpreting it.
func (s *Server) handleConvert(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         "invalid request: " + err.Error(),
			CorrelationID: correlationID,
		})
		return
	}

	converted, unit, err := s.deps.Converter.Convert(req.TestCode, *req.Value, req.FromUnit)
	if err != nil {
		s.respondError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		TestCode:       req.TestCode,
		OriginalValue:  *req.Value,
		OriginalUnit:   req.FromUnit,
		ConvertedValue: converted,
		ConvertedUnit:  unit,
	})
}

// handleGetInterpretation replays a stored interpretation response.
func (s *Server) handleGetInterpretation(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	if s.deps.History == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:         "interpretation history is not enabled",
			CorrelationID: correlationID,
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         "invalid interpretation ID",
			CorrelationID: correlationID,
		})
		return
	}

	record, err := s.deps.History.Get(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:         "interpretation not found",
			CorrelationID: correlationID,
		})
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to load interpretation record")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:         internalErrorMessage,
			CorrelationID: correlationID,
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", record.Response)
}

// respondError maps engine errors onto HTTP statuses: validation failures
// surface with their message, everything else is opaque.
func (s *Server) respondError(c *gin.Context, err error, correlationID string) {
	if domain.IsClientError(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         err.Error(),
			CorrelationID: correlationID,
		})
		return
	}

	s.logger.WithError(err).WithField("correlation_id", correlationID).Error("Request processing failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:         internalErrorMessage,
		CorrelationID: correlationID,
	})
}

// recordRejection audits pediatric rejections. Audit failures are logged,
// never surfaced.
func (s *Server) recordRejection(c *gin.Context, params *service.InterpretBatchParams, err error) {
	if s.deps.Audit == nil {
		return
	}

	var pediatric *domain.PediatricNotSupportedError
	if !errors.As(err, &pediatric) {
		return
	}

	event := &audit.Event{
		Type:          audit.EventPediatricRejected,
		CorrelationID: c.GetString("correlation_id"),
		PatientAge:    params.Age,
		PatientSex:    string(params.Sex),
		Message:       err.Error(),
	}
	if auditErr := s.deps.Audit.Record(c.Request.Context(), event); auditErr != nil {
		s.logger.WithError(auditErr).Error("Failed to record audit event")
	}
}

// cacheEnvelope is the stored form of a cached interpret response. Findings
// ride along with the body so replayed critical results are still audited
// and streamed.
type cacheEnvelope struct {
	Body     json.RawMessage           `json:"body"`
	Findings []service.CriticalFinding `json:"findings,omitempty"`
}

// emitCriticalFindings audits each critical result and pushes the alert to
// the websocket stream. Runs on fresh computations and cache replays alike.
func (s *Server) emitCriticalFindings(c *gin.Context, params *service.InterpretBatchParams, findings []service.CriticalFinding) {
	if len(findings) == 0 {
		return
	}

	correlationID := c.GetString("correlation_id")
	if s.deps.Audit != nil {
		for _, finding := range findings {
			event := &audit.Event{
				Type:          audit.EventCriticalResult,
				CorrelationID: correlationID,
				TestCode:      finding.TestCode,
				TestName:      finding.TestName,
				Value:         finding.Value,
				Unit:          finding.Unit,
				Direction:     string(finding.Direction),
				PatientAge:    params.Age,
				PatientSex:    string(params.Sex),
				Message:       "critical result detected",
			}
			if err := s.deps.Audit.Record(c.Request.Context(), event); err != nil {
				s.logger.WithError(err).WithField("test_code", finding.TestCode).Error("Failed to record audit event")
			}
		}
	}

	s.alerts.Broadcast(CriticalAlertMessage{
		Type:          "critical_alert",
		CorrelationID: correlationID,
		Findings:      findings,
		Timestamp:     time.Now().UTC(),
	})
}

// persistHistory saves the response for later retrieval and stamps the
// interpretation ID into it. Persistence failures degrade to an ID-less
// response.
func (s *Server) persistHistory(c *gin.Context, params *service.InterpretBatchParams, resp *InterpretResponse) {
	if s.deps.History == nil {
		return
	}

	record := &repository.InterpretationRecord{
		ID:            uuid.New(),
		CorrelationID: c.GetString("correlation_id"),
		PatientAge:    params.Age,
		PatientSex:    string(params.Sex),
		OverallFlag:   string(resp.Summary.OverallFlag),
		CriticalAlert: resp.Summary.CriticalAlert,
	}
	resp.InterpretationID = record.ID.String()

	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal interpretation response")
		resp.InterpretationID = ""
		return
	}
	record.Response = payload

	if err := s.deps.History.Save(c.Request.Context(), record); err != nil {
		s.logger.WithError(err).Error("Failed to persist interpretation history")
		resp.InterpretationID = ""
		return
	}

	s.logger.WithFields(logrus.Fields{
		"interpretation_id": record.ID,
		"overall_flag":      record.OverallFlag,
	}).Debug("Interpretation persisted")
}

// toBatchParams lowers the HTTP request into engine parameters.
func toBatchParams(req *InterpretRequest) *service.InterpretBatchParams {
	results := make([]service.ResultInput, 0, len(req.Results))
	for _, r := range req.Results {
		results = append(results, service.ResultInput{
			TestCode: r.TestCode,
			Value:    *r.Value,
			Unit:     r.Unit,
		})
	}
	return &service.InterpretBatchParams{
		Age:     req.Patient.Age,
		Sex:     domain.Sex(req.Patient.Sex),
		Results: results,
	}
}
