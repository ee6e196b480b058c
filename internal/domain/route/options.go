package route

// Option applies a configuration option to the Router.
type Option func(*Router)

// WithThreshold sets the minimum affinity total required before a routed
// persona beats the default.
func WithThreshold(t float64) Option {
	return func(r *Router) {
		if t >= 0 {
			r.threshold = t
		}
	}
}

// WithTopK sets how many leading tag scores contribute to affinity totals.
func WithTopK(k int) Option {
	return func(r *Router) {
		if k > 0 {
			r.topK = k
		}
	}
}
