package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-interpretation-server/internal/audit"
	"github.com/lab-interpretation-server/internal/cache"
	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/registry"
	"github.com/lab-interpretation-server/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T, mutate func(*Deps)) *Server {
	t.Helper()

	logger := testLogger()
	reg, err := registry.New(logger)
	require.NoError(t, err)

	interpreter := service.NewInterpreterService(logger, reg, 0)
	converter := service.NewConverterService(logger, reg)
	batch := service.NewBatchService(logger, reg, interpreter, converter)

	deps := Deps{
		Registry:  reg,
		Batch:     batch,
		Converter: converter,
	}
	if mutate != nil {
		mutate(&deps)
	}

	config := domain.Config{
		Logging: domain.LoggingConfig{Level: "info"},
	}
	return NewServer(config, logger, deps)
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "operational", body["status"])
	assert.Equal(t, "Lab Result Interpretation Engine", body["service"])
}

func TestHandleListTests(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/api/v1/tests", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListTestsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Count)
	require.Len(t, resp.SupportedTests, 15)
	assert.Equal(t, "ALT", resp.SupportedTests[0].Code)
}

func TestHandleInterpret_CriticalResult(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 35, "sex": "male"},
		"results": [{"test_code": "HB", "value": 6.5, "unit": "g/dL"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp InterpretResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Summary.CriticalAlert)
	assert.Equal(t, domain.SeverityCritical, resp.Summary.OverallFlag)
	assert.Equal(t, 1, resp.Summary.CriticalCount)
	require.Len(t, resp.Interpretations, 1)
	assert.Equal(t, domain.StatusLow, resp.Interpretations[0].Status)
	assert.Equal(t, domain.CriticalSafetyTemplate.NextSteps, resp.Interpretations[0].NextSteps)
	assert.Equal(t, domain.MedicalDisclaimer, resp.Disclaimer)
	assert.Nil(t, resp.Warnings)
	assert.Empty(t, resp.InterpretationID)
}

func TestHandleInterpret_PediatricRejected(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 12, "sex": "female"},
		"results": [{"test_code": "HB", "value": 13.0}]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "adult patients only (age 18+)")
}

func TestHandleInterpret_UnsupportedTestsWarned(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 30, "sex": "male"},
		"results": [
			{"test_code": "TSH", "value": 2.5},
			{"test_code": "WBC", "value": 7.0}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp InterpretResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Warnings)
	assert.Equal(t, []string{"TSH"}, resp.Warnings.UnsupportedTests)
	assert.Len(t, resp.Interpretations, 1)
	assert.Equal(t, 1, resp.Summary.EvaluatedCount)
}

func TestHandleInterpret_UnitConversionApplied(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 30, "sex": "male"},
		"results": [{"test_code": "FBG", "value": 6.5, "unit": "mmol/L"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp InterpretResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Interpretations, 1)
	assert.InDelta(t, 117.0, resp.Interpretations[0].Value, 1e-9)
	assert.Equal(t, "mg/dL", resp.Interpretations[0].Unit)
	assert.Equal(t, domain.SeverityBorderline, resp.Interpretations[0].Severity)
}

func TestHandleInterpret_UnsupportedUnitRejected(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 30, "sex": "male"},
		"results": [{"test_code": "FBG", "value": 6.5, "unit": "g/L"}]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "supported units are")
}

func TestHandleInterpret_ValidationErrors(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"patient":`},
		{"missing results", `{"patient": {"age": 30, "sex": "male"}}`},
		{"empty results", `{"patient": {"age": 30, "sex": "male"}, "results": []}`},
		{"invalid sex", `{"patient": {"age": 30, "sex": "other"}, "results": [{"test_code": "HB", "value": 13.0}]}`},
		{"missing value", `{"patient": {"age": 30, "sex": "male"}, "results": [{"test_code": "HB"}]}`},
		{"implausible age", `{"patient": {"age": 300, "sex": "male"}, "results": [{"test_code": "HB", "value": 13.0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleConvert(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/convert", `{
		"test_code": "FBG", "value": 6.5, "from_unit": "mmol/L"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 117.0, resp.ConvertedValue, 1e-9)
	assert.Equal(t, "mg/dL", resp.ConvertedUnit)
	assert.Equal(t, 6.5, resp.OriginalValue)
}

func TestHandleConvert_UnsupportedUnit(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/v1/convert", `{
		"test_code": "HB", "value": 8.0, "from_unit": "mmol/L"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "expected unit g/dL")
}

func TestHandleGetInterpretation_HistoryDisabled(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/api/v1/interpretations/6e7eac40-0c74-4c6b-9dce-96c917b44ac7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleInterpret_CachedReplay(t *testing.T) {
	responseCache, err := cache.New(domain.CacheConfig{
		Enabled:    true,
		MemorySize: 8,
		TTL:        time.Minute,
	}, testLogger())
	require.NoError(t, err)
	defer responseCache.Close()

	server := newTestServer(t, func(d *Deps) { d.Cache = responseCache })

	body := `{
		"patient": {"age": 30, "sex": "male"},
		"results": [{"test_code": "WBC", "value": 7.0}]
	}`

	first := doRequest(t, server, http.MethodPost, "/api/v1/interpret", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := doRequest(t, server, http.MethodPost, "/api/v1/interpret", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestHandleInterpret_CachedReplayStillAuditsCriticals(t *testing.T) {
	responseCache, err := cache.New(domain.CacheConfig{
		Enabled:    true,
		MemorySize: 8,
		TTL:        time.Minute,
	}, testLogger())
	require.NoError(t, err)
	defer responseCache.Close()

	store, err := audit.NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	server := newTestServer(t, func(d *Deps) {
		d.Cache = responseCache
		d.Audit = store
	})

	body := `{
		"patient": {"age": 35, "sex": "male"},
		"results": [{"test_code": "HB", "value": 6.5}]
	}`

	first := doRequest(t, server, http.MethodPost, "/api/v1/interpret", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, server, http.MethodPost, "/api/v1/interpret", body)
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))

	// Every critical delivery gets its own audit event, replayed or not.
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	events, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, audit.EventCriticalResult, event.Type)
		assert.Equal(t, "HB", event.TestCode)
	}
	assert.NotEqual(t, events[0].CorrelationID, events[1].CorrelationID,
		"each request audits under its own correlation ID")
}

func TestHandleInterpret_CachedReplayStillBroadcastsAlert(t *testing.T) {
	responseCache, err := cache.New(domain.CacheConfig{
		Enabled:    true,
		MemorySize: 8,
		TTL:        time.Minute,
	}, testLogger())
	require.NoError(t, err)
	defer responseCache.Close()

	server := newTestServer(t, func(d *Deps) { d.Cache = responseCache })
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	body := `{
		"patient": {"age": 35, "sex": "male"},
		"results": [{"test_code": "HB", "value": 6.5}]
	}`

	// Warm the cache before anyone subscribes.
	resp, err := http.Post(ts.URL+"/api/v1/interpret", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn := dialAlertStream(t, ts)
	require.Eventually(t, func() bool {
		return server.alerts.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)

	resp, err = http.Post(ts.URL+"/api/v1/interpret", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg CriticalAlertMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "critical_alert", msg.Type)
}

func TestHandleInterpret_AuditsCriticalResults(t *testing.T) {
	store, err := audit.NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	server := newTestServer(t, func(d *Deps) { d.Audit = store })

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 35, "sex": "male"},
		"results": [{"test_code": "PLT", "value": 20.0}]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	events, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventCriticalResult, events[0].Type)
	assert.Equal(t, "PLT", events[0].TestCode)
	assert.Equal(t, "low", events[0].Direction)
	assert.NotEmpty(t, events[0].CorrelationID)
}

func TestHandleInterpret_AuditsPediatricRejection(t *testing.T) {
	store, err := audit.NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	server := newTestServer(t, func(d *Deps) { d.Audit = store })

	w := doRequest(t, server, http.MethodPost, "/api/v1/interpret", `{
		"patient": {"age": 10, "sex": "male"},
		"results": [{"test_code": "HB", "value": 12.0}]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	events, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventPediatricRejected, events[0].Type)
	assert.Equal(t, 10, events[0].PatientAge)
}

func TestCorrelationIDPropagated(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "trace-123")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get("X-Correlation-ID"))
}
