// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mira-backend/internal/common/config"
	"mira-backend/internal/common/logger"
	"mira-backend/internal/models"
	"mira-backend/internal/pipeline"
)

// ==========================
// Test Helpers
// ==========================

type fakeGenerator struct {
	result *pipeline.Result
	err    error
	last   *pipeline.Request
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error) {
	f.calls++
	f.last = req
	return f.result, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "mira-backend",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: config.ServerConfig{
			BindAddr:      ":3001",
			AllowedOrigin: "http://localhost:5173",
			MaxBodyBytes:  1 << 20,
		},
	}
}

func newTestServer(gen ReportGenerator) http.Handler {
	return New(testConfig(), gen, logger.Nop()).Router()
}

func postReport(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) pipeline.Result {
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

// ==========================
// Request Validation Tests
// ==========================

func TestHandleGenerateReport_InvalidRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "missing insurance type",
			body:     `{"country": "Singapore"}`,
			expected: "Insurance type is required and must be a string",
		},
		{
			name:     "insurance type not a string",
			body:     `{"insurance_type": 42, "country": "Singapore"}`,
			expected: "Insurance type is required and must be a string",
		},
		{
			name:     "missing country",
			body:     `{"insurance_type": "term life"}`,
			expected: "Country is required and must be a string",
		},
		{
			name:     "country not a string",
			body:     `{"insurance_type": "term life", "country": ["Singapore"]}`,
			expected: "Country is required and must be a string",
		},
		{
			name:     "insurance type too short",
			body:     `{"insurance_type": "a", "country": "Singapore"}`,
			expected: "Insurance type must be between 2 and 100 characters",
		},
		{
			name:     "insurance type only whitespace",
			body:     `{"insurance_type": "   ", "country": "Singapore"}`,
			expected: "Insurance type must be between 2 and 100 characters",
		},
		{
			name:     "insurance type too long",
			body:     `{"insurance_type": "` + strings.Repeat("x", 101) + `", "country": "Singapore"}`,
			expected: "Insurance type must be between 2 and 100 characters",
		},
		{
			name:     "country too short",
			body:     `{"insurance_type": "term life", "country": "x"}`,
			expected: "Country must be between 2 and 100 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			handler := newTestServer(gen)

			rec := postReport(t, handler, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			result := decodeResult(t, rec)
			assert.False(t, result.OK)
			assert.Equal(t, tt.expected, result.Error)
			assert.Equal(t, 0, gen.calls, "invalid requests must not reach the pipeline")
		})
	}
}

func TestHandleGenerateReport_MalformedJSON(t *testing.T) {
	gen := &fakeGenerator{}
	handler := newTestServer(gen)

	rec := postReport(t, handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, gen.calls)
}

// ==========================
// Pipeline Integration Tests
// ==========================

func TestHandleGenerateReport_Success(t *testing.T) {
	gen := &fakeGenerator{
		result: &pipeline.Result{
			OK:       true,
			ReportID: "report-123",
			HTML:     "<html>report</html>",
			Products: []models.VerifiedProduct{
				{ProductName: "TravelCare", Insurer: "PVI", URL: "https://pvi.com.vn"},
			},
		},
	}
	handler := newTestServer(gen)

	rec := postReport(t, handler, `{"insurance_type": "  term life  ", "country": "  Singapore  "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.OK)
	assert.Equal(t, "report-123", result.ReportID)
	assert.Len(t, result.Products, 1)

	require.NotNil(t, gen.last)
	assert.Equal(t, "term life", gen.last.InsuranceType, "inputs are trimmed")
	assert.Equal(t, "Singapore", gen.last.Country)
}

func TestHandleGenerateReport_PipelineRejectionIsStill200(t *testing.T) {
	gen := &fakeGenerator{
		result: &pipeline.Result{
			OK:    false,
			Error: "Could not find valid term life insurance products in Singapore. Please try a different search.",
		},
	}
	handler := newTestServer(gen)

	rec := postReport(t, handler, `{"insurance_type": "term life", "country": "Singapore"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "Could not find valid")
}

func TestHandleGenerateReport_UnexpectedErrorIs500(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	handler := newTestServer(gen)

	rec := postReport(t, handler, `{"insurance_type": "term life", "country": "Singapore"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.OK)
	assert.Equal(t, "Failed to generate report. Please try again later.", result.Error)
}

// ==========================
// Routing and Middleware Tests
// ==========================

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRootEndpoint(t *testing.T) {
	handler := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mira-backend")
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFound(t *testing.T) {
	handler := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Endpoint not found")
}

func TestCORS(t *testing.T) {
	handler := newTestServer(&fakeGenerator{})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/generate-report", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("disallowed origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origin header passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
