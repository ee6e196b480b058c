package newsapi

import "errors"

// Sentinel kinds for fetch-client errors.
var (
	ErrMissingAPIKey = errors.New("newsapi key required")
	ErrBadRequest    = errors.New("bad fetch request")
	ErrUpstream      = errors.New("newsapi error")
)
