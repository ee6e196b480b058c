package classify

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithTitleWeight sets the multiplier applied to keyword hits in the title.
func WithTitleWeight(w float64) Option {
	return func(c *Classifier) {
		if w > 0 {
			c.titleWeight = w
		}
	}
}

// WithBodyWeight sets the multiplier applied to keyword hits in the body.
func WithBodyWeight(w float64) Option {
	return func(c *Classifier) {
		if w > 0 {
			c.bodyWeight = w
		}
	}
}
