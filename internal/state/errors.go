package state

import "errors"

var (
	ErrInvalidState = errors.New("invalid state data")
	ErrWriteState   = errors.New("failed to write state")
)
