package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "planact/server/errors"
)

var globalErrorMetrics = apperrors.NewErrorMetricsCollector()

// GetErrorMetrics returns the process-wide error collector.
func GetErrorMetrics() *apperrors.ErrorMetricsCollector {
	return globalErrorMetrics
}

// HTTPError is an error that knows its HTTP status and user-facing text.
type HTTPError interface {
	error
	StatusCode() int
	UserMessage() string
	GetContext() string
	Unwrap() error
}

var _ HTTPError = (*apperrors.AppError)(nil)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// GinHandleError records err, logs it and writes the JSON reply. Errors that
// are not HTTPError become a generic 500.
func GinHandleError(c *gin.Context, err error) {
	reqID := GetRequestIDFromGin(c)
	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}

	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = apperrors.NewInternalError("unhandled error", err)
	}
	status := httpErr.StatusCode()

	var appErr *apperrors.AppError
	if errors.As(httpErr, &appErr) {
		globalErrorMetrics.RecordError(appErr, endpoint, reqID)
	}

	attrs := []any{
		"error", err,
		"user_message", httpErr.UserMessage(),
		"status_code", status,
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if ctx := httpErr.GetContext(); ctx != "" {
		attrs = append(attrs, "context", ctx)
	}
	logger := LoggerFromGin(c)
	if status >= http.StatusInternalServerError {
		logger.Error("HTTP error", attrs...)
	} else {
		logger.Warn("HTTP error", attrs...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     httpErr.UserMessage(),
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: reqID,
	})
}
