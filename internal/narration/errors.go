package narration

import "errors"

// Sentinel kinds for session errors.
var (
	ErrInvalidScope      = errors.New("invalid enumeration scope")
	ErrNoDispatches      = errors.New("no dispatches available")
	ErrEntryInProgress   = errors.New("an entry is already in progress")
	ErrNoEntryInProgress = errors.New("no entry in progress")
	ErrExhausted         = errors.New("session exhausted")
)
