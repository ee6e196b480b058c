// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Layer defaults, optional YAML file, then environment variables.
// - External errors are wrapped via this package's sentinel errors.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// DispatchDir is the root of the date-partitioned dispatch store.
	DispatchDir string `koanf:"dispatch_dir"`

	// TaxonomyPath and PersonasPath point at the YAML rule files. Empty
	// values fall back to the built-in tables.
	TaxonomyPath string `koanf:"taxonomy_path"`
	PersonasPath string `koanf:"personas_path"`

	// TitleWeight and BodyWeight scale keyword hits per text section.
	TitleWeight float64 `koanf:"title_weight"`
	BodyWeight  float64 `koanf:"body_weight"`

	// RouteThreshold is the minimum affinity total before a routed persona
	// beats the default. RouteTopK bounds how many tag scores contribute.
	RouteThreshold float64 `koanf:"route_threshold"`
	RouteTopK      int     `koanf:"route_top_k"`

	// BodyLimit bounds the templated fallback body, in runes.
	BodyLimit int `koanf:"body_limit"`

	// NewsAPI settings for the article-fetch collaborator.
	NewsAPIBaseURL  string `koanf:"newsapi_base_url"`
	NewsAPIKey      string `koanf:"newsapi_key"`
	NewsAPIPageSize int    `koanf:"newsapi_page_size"`

	// Rewrite settings for the optional LLM prose-rewrite collaborator.
	// An empty endpoint disables rewriting entirely.
	RewriteEndpoint string `koanf:"rewrite_endpoint"`
	RewriteModel    string `koanf:"rewrite_model"`
	RewriteAPIKey   string `koanf:"rewrite_api_key"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8090",
		DispatchDir:     "dispatch",
		TitleWeight:     2.0,
		BodyWeight:      1.0,
		RouteThreshold:  0.5,
		RouteTopK:       3,
		BodyLimit:       600,
		NewsAPIBaseURL:  "https://newsapi.org/v2",
		NewsAPIPageSize: 10,
		RewriteModel:    "gpt-4o-mini",
	}
}
