package dispatch

import "errors"

// Sentinel kinds for record validation errors. These are per-article: one
// bad article never aborts the rest of the batch.
var (
	ErrInvalidArticle = errors.New("invalid article")
	ErrUnknownVoice   = errors.New("unknown voice")
)
