package llm

import "errors"

// Sentinel kinds for rewrite-client errors.
var (
	ErrMisconfigured = errors.New("rewrite client misconfigured")
	ErrUpstream      = errors.New("rewrite service error")
)
