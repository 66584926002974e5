package binder

import "errors"

// Common binding errors
var (
	// ErrValidationFailed matches every *ValidationFailure through errors.Is.
	ErrValidationFailed = errors.New("request validation failed")

	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrFileTooLarge         = errors.New("uploaded file too large")
	ErrInvalidTarget        = errors.New("decode target must be a non-nil pointer to struct")
	ErrUnknownSource        = errors.New("unknown parameter source")
)
