// Package errors provides structured error handling for the application.
// Every error shown to a person carries a derived, human-readable message;
// raw transport or status errors never reach the UI untranslated.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server / transport errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeBackendError ErrorCode = "BACKEND_ERROR"
	CodeNetworkError ErrorCode = "NETWORK_ERROR"

	// Domain errors
	CodeInvalidImageType   ErrorCode = "INVALID_IMAGE_TYPE"
	CodeImageTooLarge      ErrorCode = "IMAGE_TOO_LARGE"
	CodeFileReadFailed     ErrorCode = "FILE_READ_FAILED"
	CodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// AppError represents an application error with structured information
type AppError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	UserMessage string                 `json:"user_message,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Cause       error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.UserMessage != "" && e.UserMessage != e.Message {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.UserMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidImageType, CodeImageTooLarge:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeSessionExpired, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeBackendError, CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error. The user message defaults to the
// internal message until a caller derives a friendlier one.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, UserMessage: message}
}

// NewWithUserMessage creates an error with distinct internal and user-facing text
func NewWithUserMessage(code ErrorCode, message, userMessage string) *AppError {
	return &AppError{Code: code, Message: message, UserMessage: userMessage}
}

// User-facing messages for HTTP status codes. Validation detail from the
// server replaces the 400/422 entries when present.
const (
	msgBadRequest   = "Please check the information you entered."
	msgLoginNeeded  = "Please log in to continue."
	msgForbidden    = "You do not have permission to do that."
	msgNotFound     = "The requested information could not be found."
	msgConflict     = "That information already exists."
	msgRateLimited  = "Too many requests. Please try again in a moment."
	msgTemporary    = "A temporary problem occurred. Please try again shortly."
	msgUnknown      = "An unexpected error occurred. Please try again shortly."
	msgNetwork      = "Could not reach the server. Please check your connection."
)

// FromStatus converts an HTTP status code and optional server-provided detail
// into an AppError with a derived user message.
func FromStatus(status int, detail string) *AppError {
	switch {
	case status == http.StatusBadRequest:
		msg := msgBadRequest
		if detail != "" {
			msg = detail
		}
		return NewWithUserMessage(CodeBadRequest, fmt.Sprintf("backend returned 400: %s", detail), msg)
	case status == http.StatusUnauthorized:
		return NewWithUserMessage(CodeUnauthorized, "backend returned 401", msgLoginNeeded)
	case status == http.StatusForbidden:
		return NewWithUserMessage(CodeForbidden, "backend returned 403", msgForbidden)
	case status == http.StatusNotFound:
		return NewWithUserMessage(CodeNotFound, "backend returned 404", msgNotFound)
	case status == http.StatusConflict:
		return NewWithUserMessage(CodeConflict, "backend returned 409", msgConflict)
	case status == http.StatusUnprocessableEntity:
		msg := msgBadRequest
		if detail != "" {
			msg = detail
		}
		return NewWithUserMessage(CodeValidationFailed, fmt.Sprintf("backend returned 422: %s", detail), msg)
	case status == http.StatusTooManyRequests:
		return NewWithUserMessage(CodeTooManyRequests, "backend returned 429", msgRateLimited)
	case status >= 500:
		return NewWithUserMessage(CodeBackendError, fmt.Sprintf("backend returned %d", status), msgTemporary)
	default:
		return NewWithUserMessage(CodeBackendError, fmt.Sprintf("backend returned %d", status), msgUnknown)
	}
}

// NewNetworkError wraps a transport failure where no response was received
func NewNetworkError(cause error) *AppError {
	return NewWithUserMessage(CodeNetworkError, "request failed", msgNetwork).WithCause(cause)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return NewWithUserMessage(CodeInternal, message, msgUnknown)
}

// NewValidationError creates a client-side validation error. The detail is
// user-facing since the input never left the browser form.
func NewValidationError(detail string) *AppError {
	return NewWithUserMessage(CodeValidationFailed, "validation failed: "+detail, detail)
}

// Action prefixes for user-facing messages, matching the flows a person can
// trigger from the UI.
var actionPrefixes = map[string]string{
	"analyze-image":      "Image analysis failed. ",
	"generate-recipes":   "Recipe generation failed. ",
	"save-recipe":        "Could not save the recipe. ",
	"delete-recipe":      "Could not delete the recipe. ",
	"update-preferences": "Could not save your preferences. ",
	"get-user":           "Could not load your profile. ",
	"get-stats":          "Could not load statistics. ",
}

// UserMessage extracts the user-facing message from any error, optionally
// prefixed for the action that failed.
func UserMessage(action string, err error) string {
	base := msgUnknown
	if appErr, ok := err.(*AppError); ok && appErr.UserMessage != "" {
		base = appErr.UserMessage
	}
	return actionPrefixes[action] + base
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}
