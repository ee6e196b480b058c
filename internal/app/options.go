package app

import (
	"github.com/fortsentinel/dispatch/internal/adapters/llm"
	"github.com/fortsentinel/dispatch/internal/domain/classify"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/route"
	"github.com/fortsentinel/dispatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRewriter enables the optional prose-rewrite collaborator.
func WithRewriter(r llm.Rewriter) Option {
	return func(s *Service) {
		s.rewriter = r
	}
}

// WithClassifierOptions forwards options to the tag classifier.
func WithClassifierOptions(opts ...classify.Option) Option {
	return func(s *Service) {
		s.classifierOpts = append(s.classifierOpts, opts...)
	}
}

// WithRouterOptions forwards options to the voice router.
func WithRouterOptions(opts ...route.Option) Option {
	return func(s *Service) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// WithBuilderOptions forwards options to the dispatch builder.
func WithBuilderOptions(opts ...dispatch.Option) Option {
	return func(s *Service) {
		s.builderOpts = append(s.builderOpts, opts...)
	}
}
