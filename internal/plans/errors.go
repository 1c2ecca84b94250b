package plans

import "errors"

var ErrNotFound = errors.New("not found")

const (
	ErrorCodeValidation     = "validation_error"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeLLMUnavailable = "llm_unavailable"
	ErrorCodeLLMFailed      = "llm_failed"
	ErrorCodeInternal       = "internal_error"
)
