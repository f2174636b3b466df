package in

import "cuplog/internal/modules/tasting/domain"

// Errors callers of the usecase can match with errors.Is.
var (
	ErrIncompleteSession = domain.ErrIncompleteSession
	ErrBackendWrite      = domain.ErrBackendWrite
	ErrBackendRead       = domain.ErrBackendRead
	ErrMissingMode       = domain.ErrMissingMode
	ErrCorruptedMode     = domain.ErrCorruptedMode
	ErrStepIncomplete    = domain.ErrStepIncomplete
	ErrUnknownStep       = domain.ErrUnknownStep
)
