package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "planact/server/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestGinRequestIDMiddleware(t *testing.T) {
	r := newRouter(GinRequestIDMiddleware())
	var seen, fromCtx string
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestIDFromGin(c)
		fromCtx = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, fromCtx)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", w.Header().Get(RequestIDHeader))
}

func TestGinCORSMiddleware(t *testing.T) {
	r := newRouter(GinCORSMiddleware())
	r.POST("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/upload", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestGinHandleError(t *testing.T) {
	r := newRouter(GinRequestIDMiddleware())
	r.GET("/bad", func(c *gin.Context) {
		GinHandleError(c, apperrors.NewValidationError("order book: required column missing", nil))
	})
	r.GET("/boom", func(c *gin.Context) {
		GinHandleError(c, errors.New("database password is hunter2"))
	})

	before := GetErrorMetrics().Snapshot().TotalErrors

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order book: required column missing", resp.Error)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")

	after := GetErrorMetrics().Snapshot()
	assert.Equal(t, before+2, after.TotalErrors)
}

func TestGinHandleError_UsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newRouter(GinRequestIDMiddleware(), GinLoggerMiddleware(logger))
	r.GET("/fail", func(c *gin.Context) {
		GinHandleError(c, apperrors.NewValidationError("order book: required column missing", nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), `"msg":"HTTP error"`)
	assert.Contains(t, buf.String(), `"user_message":"order book: required column missing"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestGinRecoveryMiddleware(t *testing.T) {
	r := newRouter(GinRequestIDMiddleware(), GinRecoveryMiddleware(nil))
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestGinRateLimitMiddleware(t *testing.T) {
	r := newRouter(GinRateLimitMiddleware(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGinBodyLimitMiddleware(t *testing.T) {
	r := newRouter(GinBodyLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) {
		_, err := c.GetRawData()
		if IsBodyTooLarge(err) {
			GinHandleError(c, apperrors.NewPayloadTooLargeError("too large", err))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large a body"))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
