package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planact/server/middleware"
)

// ErrorMetricsHandler exposes the error counters collected by the middleware.
type ErrorMetricsHandler struct{}

// NewErrorMetricsHandler creates the handler.
func NewErrorMetricsHandler() *ErrorMetricsHandler {
	return &ErrorMetricsHandler{}
}

// GetErrorMetrics returns totals by status code and endpoint plus the most
// recent errors.
// @Summary Error metrics
// @Description Counts of errors returned by the API since start
// @Tags system
// @Produce json
// @Success 200 {object} errors.ErrorMetrics
// @Router /api/errors/metrics [get]
func (h *ErrorMetricsHandler) GetErrorMetrics(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, middleware.GetErrorMetrics().Snapshot())
}
