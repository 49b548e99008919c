package entity

import "errors"

// Domain errors
var (
	// Form errors
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnknownVariant    = errors.New("unknown form variant")
	ErrInvalidTransition = errors.New("invalid form transition")
	ErrSessionNotFound   = errors.New("session not found")
	ErrIncompleteForm    = errors.New("form has missing required fields")

	// Collaborator errors
	ErrEnrichmentUnavailable = errors.New("enrichment service unavailable")
	ErrCommitFailed          = errors.New("failed to commit submission")
	ErrTransportFailure      = errors.New("messaging transport failure")
	ErrSpeechUnavailable     = errors.New("speech recognition unavailable")

	// Record errors
	ErrRecordNotFound    = errors.New("record not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidStatus     = errors.New("invalid status")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
