package errors

import (
	"sync"
	"time"
)

// ErrorRecord is one error returned to a client.
type ErrorRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Code        int       `json:"code"`
	Message     string    `json:"message"`
	Endpoint    string    `json:"endpoint"`
	RequestID   string    `json:"request_id,omitempty"`
	UserMessage string    `json:"user_message"`
}

// ErrorMetrics is a snapshot of the collector.
type ErrorMetrics struct {
	TotalErrors      int64            `json:"total_errors"`
	ErrorsByCode     map[int]int64    `json:"errors_by_code"`
	ErrorsByEndpoint map[string]int64 `json:"errors_by_endpoint"`
	LastErrors       []ErrorRecord    `json:"last_errors"`
	Uptime           string           `json:"uptime"`
}

// ErrorMetricsCollector counts errors returned by the API.
type ErrorMetricsCollector struct {
	mu sync.RWMutex

	totalErrors      int64
	errorsByCode     map[int]int64
	errorsByEndpoint map[string]int64
	lastErrors       []ErrorRecord
	maxLastErrors    int
	startTime        time.Time
}

// NewErrorMetricsCollector creates an empty collector keeping the last 100 errors.
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	return &ErrorMetricsCollector{
		errorsByCode:     make(map[int]int64),
		errorsByEndpoint: make(map[string]int64),
		maxLastErrors:    100,
		startTime:        time.Now(),
	}
}

// RecordError adds err to the metrics.
func (emc *ErrorMetricsCollector) RecordError(err *AppError, endpoint, requestID string) {
	if err == nil {
		return
	}
	emc.mu.Lock()
	defer emc.mu.Unlock()

	emc.totalErrors++
	emc.errorsByCode[err.Code]++
	emc.errorsByEndpoint[endpoint]++

	emc.lastErrors = append(emc.lastErrors, ErrorRecord{
		Timestamp:   time.Now(),
		Code:        err.Code,
		Message:     err.Error(),
		Endpoint:    endpoint,
		RequestID:   requestID,
		UserMessage: err.Message,
	})
	if len(emc.lastErrors) > emc.maxLastErrors {
		emc.lastErrors = emc.lastErrors[len(emc.lastErrors)-emc.maxLastErrors:]
	}
}

// Snapshot returns a copy of the current metrics.
func (emc *ErrorMetricsCollector) Snapshot() ErrorMetrics {
	emc.mu.RLock()
	defer emc.mu.RUnlock()

	m := ErrorMetrics{
		TotalErrors:      emc.totalErrors,
		ErrorsByCode:     make(map[int]int64, len(emc.errorsByCode)),
		ErrorsByEndpoint: make(map[string]int64, len(emc.errorsByEndpoint)),
		LastErrors:       append([]ErrorRecord(nil), emc.lastErrors...),
		Uptime:           time.Since(emc.startTime).Round(time.Second).String(),
	}
	for k, v := range emc.errorsByCode {
		m.ErrorsByCode[k] = v
	}
	for k, v := range emc.errorsByEndpoint {
		m.ErrorsByEndpoint[k] = v
	}
	return m
}
