package classify

import "errors"

// Sentinel kinds for taxonomy errors. A malformed taxonomy is a fatal
// startup condition, never a per-article one.
var (
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
)
