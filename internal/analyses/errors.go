package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidTimestamp = errors.New("invalid datetime")
	ErrStorage          = errors.New("storage failure")
	ErrConsistency      = errors.New("label missing from knowledge base")
	ErrNoResult         = errors.New("no analysis in session")

	// ErrNoSession and ErrEmptyImage are validation failures.
	ErrNoSession  = fmt.Errorf("%w: missing session", ErrValidation)
	ErrEmptyImage = fmt.Errorf("%w: image is empty", ErrValidation)
)

const (
	ErrorCodeValidation  = "validation_error"
	ErrorCodeDateTime    = "invalid_datetime"
	ErrorCodeImage       = "invalid_image"
	ErrorCodeTooLarge    = "payload_too_large"
	ErrorCodeInference   = "inference_failed"
	ErrorCodeConsistency = "consistency_error"
	ErrorCodeStorage     = "storage_error"
	ErrorCodeNotFound    = "not_found"
	ErrorCodeInternal    = "internal_error"
)
