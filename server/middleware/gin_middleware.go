package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apperrors "planact/server/errors"
)

const requestIDContextKey = "request_id"

// GinRequestIDMiddleware assigns every request an ID, reusing X-Request-ID
// when the client sends one.
func GinRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Set(requestIDContextKey, reqID)
		c.Request = c.Request.WithContext(SetRequestID(c.Request.Context(), reqID))
		c.Header(RequestIDHeader, reqID)

		c.Next()
	}
}

// GetRequestIDFromGin returns the request ID set by GinRequestIDMiddleware.
func GetRequestIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Get(requestIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// GinCORSMiddleware allows browser uploads from any origin.
func GinCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, X-Run-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// GinGzipMiddleware compresses JSON responses. Workbooks are already zip
// archives and are excluded by extension.
func GinGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedExtensions([]string{".xlsx"}),
		gzip.WithExcludedPaths([]string{"/api/reports/export", "/api/reports/crosstab/export"}))
}

const loggerKey = "logger"

// LoggerFromGin returns the logger set by GinLoggerMiddleware, or the slog
// default when the middleware is not installed.
func LoggerFromGin(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// GinLoggerMiddleware logs one structured line per request and makes logger
// available to handlers through LoggerFromGin.
func GinLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		c.Set(loggerKey, logger)
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
			"request_id", GetRequestIDFromGin(c),
		}
		if err := c.Errors.Last(); err != nil {
			attrs = append(attrs, "error", err.Error())
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

// GinRecoveryMiddleware turns a panic into a 500 JSON response.
func GinRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				reqID := GetRequestIDFromGin(c)
				logger.Error("panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
					"request_id", reqID,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				GinHandleError(c, apperrors.NewInternalError("panic", fmt.Errorf("%v", rec)))
			}
		}()
		c.Next()
	}
}

// GinRateLimitMiddleware rejects requests beyond perSec with burst using a
// single shared token bucket. Pipeline runs are CPU bound, so a global limit
// protects the process regardless of client.
func GinRateLimitMiddleware(perSec float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perSec), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			GinHandleError(c, apperrors.NewTooManyRequestsError("Too many report requests, please retry shortly"))
			return
		}
		c.Next()
	}
}

// GinBodyLimitMiddleware caps the request body at maxBytes.
func GinBodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			GinHandleError(c, apperrors.NewPayloadTooLargeError(
				fmt.Sprintf("Upload exceeds the %d MB limit", maxBytes>>20), nil))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from a body exceeding the limit.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
