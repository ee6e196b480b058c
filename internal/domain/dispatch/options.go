package dispatch

import "time"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBodyLimit bounds the article text kept in the templated fallback body.
func WithBodyLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.bodyLimit = limit
		}
	}
}

// WithSummaryLimit bounds the generated summary length.
func WithSummaryLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.summaryLimit = limit
		}
	}
}

// WithClock overrides the time source. Tests use this to pin the partition
// day and created_at.
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}
