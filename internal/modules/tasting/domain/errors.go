package domain

import "errors"

var (
	// ErrIncompleteSession is returned before any backend call when mode or coffee info is missing.
	// The message is part of the client contract.
	ErrIncompleteSession = errors.New("Incomplete session data") //nolint:staticcheck
	ErrBackendWrite      = errors.New("backend write failed")
	ErrBackendRead       = errors.New("backend read failed")
	ErrMissingMode       = errors.New("session mode is missing")
	ErrCorruptedMode     = errors.New("session mode is corrupted")
	ErrStepIncomplete    = errors.New("step data incomplete")
	ErrUnknownStep       = errors.New("unknown step")
)
