package errors

import (
	"errors"
	"fmt"
	"net/http"

	"planact/quality"
)

// AppError is an error with an HTTP status and a message safe to show users.
type AppError struct {
	Code    int    `json:"status_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // logged, never serialized
	Context string `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode implements middleware.HTTPError.
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage implements middleware.HTTPError.
func (e *AppError) UserMessage() string {
	return e.Message
}

// GetContext implements middleware.HTTPError.
func (e *AppError) GetContext() string {
	return e.Context
}

// WithContext sets the logging context of the error.
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewValidationError creates a 400 Bad Request error.
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a 404 Not Found error.
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

// NewPayloadTooLargeError creates a 413 error for oversized uploads.
func NewPayloadTooLargeError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusRequestEntityTooLarge,
		Message: message,
		Err:     err,
	}
}

// NewTooManyRequestsError creates a 429 error.
func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Message: message,
	}
}

// NewInternalError creates a 500 error. Users get a generic message; the
// details go to the log only.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     errors.Join(errors.New(message), err),
	}
}

// FromPipeline maps a reconciliation failure to an AppError: data problems
// the user can fix are 400 with the message verbatim, anything else is 500.
func FromPipeline(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if quality.IsUserError(err) {
		return NewValidationError(err.Error(), err)
	}
	return NewInternalError("reconciliation failed", err)
}

// WrapError adds message to an AppError, or wraps any other error as internal.
func WrapError(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
			Context: appErr.Context,
		}
	}
	return NewInternalError(message, err)
}
