package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SENTINEL_CONFIG is set
//  3. env (prefix SENTINEL_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("SENTINEL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SENTINEL_ADDR, SENTINEL_DISPATCH_DIR, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SENTINEL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "sentinel_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DispatchDir == "":
		return nil, fmt.Errorf("%w: dispatch_dir must not be empty", ErrInvalidConfig)
	case cfg.TitleWeight <= 0 || cfg.BodyWeight <= 0:
		return nil, fmt.Errorf("%w: keyword weights must be positive", ErrInvalidConfig)
	case cfg.RouteTopK <= 0:
		return nil, fmt.Errorf("%w: route_top_k must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
