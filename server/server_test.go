package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planact/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.GetDefaults()
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000
	return NewServer(cfg, NewLogger(&bytes.Buffer{}, slog.LevelDebug, "text"))
}

func TestServerRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/errors/metrics", http.StatusOK},
		{http.MethodPost, "/api/reports/preview", http.StatusBadRequest},
		{http.MethodPost, "/api/reports/export", http.StatusBadRequest},
		{http.MethodPost, "/api/reports/crosstab/export", http.StatusBadRequest},
		{http.MethodGet, "/api/reports/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestServerNoRoute(t *testing.T) {
	h := newTestServer(t).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/unknown", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No route for GET /api/reports/unknown", body.Error)
	assert.Equal(t, w.Header().Get("X-Request-ID"), body.RequestID)
}

func TestServerBodyLimit(t *testing.T) {
	s := newTestServer(t)
	s.config.MaxUploadBytes = 16
	h := s.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/reports/preview", strings.NewReader(strings.Repeat("x", 64)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestServerRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.config.RateLimitPerSec = 0.001
	s.config.RateLimitBurst = 1
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reports/preview", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reports/preview", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	require.NoError(t, newTestServer(t).Shutdown(context.Background()))
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "json").Info("hello", "k", "v")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])

	buf.Reset()
	NewLogger(&buf, slog.LevelWarn, "text").Info("dropped")
	assert.Empty(t, buf.String())
}
