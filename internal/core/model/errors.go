package model

import "errors"

var (
	// ErrInvalidInput is returned when a comparison target carries no name at all.
	ErrInvalidInput = errors.New("invalid input")
	ErrNoRoot       = errors.New("no root")
	ErrHeadNotFound = errors.New("head not found")
	// ErrExternalLoad wraps failures from the record store. The core does not retry.
	ErrExternalLoad = errors.New("external load failure")
)
