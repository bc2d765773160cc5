package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeDirectoryError    = "DIRECTORY_ERROR"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeMalformedSource   = "MALFORMED_SOURCE"
	CodeValidation        = "VALIDATION_ERROR"
	CodeCache             = "CACHE_ERROR"
)

type DirectoryError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *DirectoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DirectoryError) Unwrap() error {
	return e.Cause
}

func NewDirectoryError(message, code string, statusCode int, context map[string]any) *DirectoryError {
	return &DirectoryError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *DirectoryError) WithCause(cause error) *DirectoryError {
	e.Cause = cause
	return e
}

// SourceUnavailableError means the profile document could not be retrieved.
type SourceUnavailableError struct {
	*DirectoryError
	Location string
}

func NewSourceUnavailableError(message, location string, statusCode int, cause error) *SourceUnavailableError {
	return &SourceUnavailableError{
		DirectoryError: &DirectoryError{
			Message:    message,
			Code:       CodeSourceUnavailable,
			StatusCode: statusCode,
			Context: map[string]any{
				"location": location,
			},
			Cause: cause,
		},
		Location: location,
	}
}

// MalformedSourceError means the document was retrieved but is not a profiles document.
type MalformedSourceError struct {
	*DirectoryError
	Location string
}

func NewMalformedSourceError(message, location string, cause error) *MalformedSourceError {
	return &MalformedSourceError{
		DirectoryError: &DirectoryError{
			Message:    message,
			Code:       CodeMalformedSource,
			StatusCode: 502,
			Context: map[string]any{
				"location": location,
			},
			Cause: cause,
		},
		Location: location,
	}
}

type ValidationError struct {
	*DirectoryError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		DirectoryError: &DirectoryError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*DirectoryError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		DirectoryError: &DirectoryError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func IsSourceUnavailable(err error) bool {
	var target *SourceUnavailableError
	return stderrors.As(err, &target)
}

func IsMalformedSource(err error) bool {
	var target *MalformedSourceError
	return stderrors.As(err, &target)
}
