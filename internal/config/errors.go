package config

import (
	"errors"
)

// Sentinel error kinds for this package. Configuration failures are global
// and fatal: they abort the run before any article is processed.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
