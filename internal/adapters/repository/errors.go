package repository

import "errors"

// Sentinel kinds for store errors. I/O failures are wrapped in ErrStorage
// and surfaced to the caller, never swallowed.
var (
	ErrNotFound = errors.New("dispatch not found")
	ErrStorage  = errors.New("storage failure")
)
