package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients alongside the HTTP status.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeQuotaExceeded = "STORAGE_QUOTA_EXCEEDED"
	CodeInternal      = "INTERNAL_ERROR"
)

// ApiError is the typed failure every service method returns. Controllers
// map it to a response with HandleError; anything that is not an ApiError is
// treated as an unexpected internal failure.
type ApiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(statusCode int, code, message string) *ApiError {
	return &ApiError{StatusCode: statusCode, Code: code, Message: message}
}

func BadRequest(message string) *ApiError {
	return NewApiError(http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(message string) *ApiError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewApiError(http.StatusUnauthorized, CodeUnauthorized, message)
}

// NotFound is used both when the entity is absent and when it belongs to
// another user. The two cases are indistinguishable in the response so that
// probing cannot reveal the existence of other users' data.
func NotFound(resource string) *ApiError {
	if resource == "" {
		resource = "Resource"
	}
	return NewApiError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Conflict(message string) *ApiError {
	return NewApiError(http.StatusConflict, CodeConflict, message)
}

func ValidationError(message string) *ApiError {
	return NewApiError(http.StatusUnprocessableEntity, CodeValidation, message)
}

// StorageQuotaExceeded always embeds the formatted limit so clients can
// render a precise message.
func StorageQuotaExceeded(limitBytes int64) *ApiError {
	return NewApiError(
		http.StatusForbidden,
		CodeQuotaExceeded,
		fmt.Sprintf("You have exceeded your %s storage limit.", FormatBytes(limitBytes)),
	)
}

func Internal(message string) *ApiError {
	if message == "" {
		message = "Internal server error"
	}
	return NewApiError(http.StatusInternalServerError, CodeInternal, message)
}

// IsNotFound reports whether err is an ApiError carrying the NOT_FOUND code.
func IsNotFound(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.Code == CodeNotFound
}
