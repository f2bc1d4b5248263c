package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/gin-gonic/gin"
)

// ErrorCode represents a unique error code for application errors
type ErrorCode string

// Application error codes
const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeServerError  ErrorCode = "SERVER_ERROR"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNetwork      ErrorCode = "NETWORK_ERROR"
	ErrCodeFormat       ErrorCode = "FORMAT_ERROR"

	// The server answered with an explicit success:false envelope.
	ErrCodeRejected ErrorCode = "REQUEST_REJECTED"

	// Local persisted-cache failures
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// AppError represents a custom application error.
//
// For failures built from an HTTP exchange StatusCode carries the status the
// server actually answered with, or 0 when no response was received.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getDefaultStatusCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new AppError wrapping an existing error
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getDefaultStatusCode(code),
		Err:        err,
	}
}

// WithDetails adds details to an existing AppError
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithStatusCode overrides the default status code
func (e *AppError) WithStatusCode(statusCode int) *AppError {
	e.StatusCode = statusCode
	return e
}

// DisplayMessage joins message and details the way banners show them.
func (e *AppError) DisplayMessage() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// getDefaultStatusCode returns the default HTTP status code for an error code
func getDefaultStatusCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeRejected:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNetwork, ErrCodeFormat:
		return 0
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the ErrorCode of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err is an AppError carrying code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Response helpers

// RespondWithError sends an error response using the AppError
func RespondWithError(c *gin.Context, err *AppError) {
	status := err.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, models.APIResponse{
		Success: false,
		Message: err.Message,
		Error:   string(err.Code),
	})
}

// HandleError converts any error to an AppError and responds with it
func HandleError(c *gin.Context, err error) {
	if appErr, ok := IsAppError(err); ok {
		RespondWithError(c, appErr)
		return
	}

	appErr := Wrap(err, ErrCodeInternal, "An unexpected error occurred")
	RespondWithError(c, appErr)
}

// Validation helpers

// ValidateRequired checks if a value is present and returns an AppError if not
func ValidateRequired(value interface{}, fieldName string) *AppError {
	switch v := value.(type) {
	case string:
		if v == "" {
			return Newf(ErrCodeValidation, "%s is required", fieldName)
		}
	case int64:
		if v == 0 {
			return Newf(ErrCodeValidation, "%s is required", fieldName)
		}
	case nil:
		return Newf(ErrCodeValidation, "%s is required", fieldName)
	}
	return nil
}
