package route

import "errors"

// Sentinel kinds for persona routing errors.
var (
	ErrInvalidRoster = errors.New("invalid persona roster")
	ErrUnknownVoice  = errors.New("unknown voice")
)
