// Package app wires the classification pipeline stages into the service
// consumed by the HTTP API and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortsentinel/dispatch/internal/adapters/llm"
	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/domain/classify"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/internal/domain/route"
	"github.com/fortsentinel/dispatch/internal/narration"
	"github.com/fortsentinel/dispatch/pkg/logger"
	"github.com/fortsentinel/dispatch/pkg/metrics"
)

// Result reports the outcome for one article in a batch.
type Result struct {
	ArticleURL string
	ID         string
	Voice      string
	Tags       []string
	Written    bool
	SkipReason string
}

// BatchReport aggregates a ProcessBatch run.
type BatchReport struct {
	Results  []Result
	Written  int
	Existing int
	Skipped  int
}

// Service runs the classify -> route -> build -> put pipeline and exposes
// the query surface over the store.
type Service struct {
	classifier *classify.Classifier
	router     *route.Router
	builder    *dispatch.Builder
	store      repository.Store
	rewriter   llm.Rewriter
	log        logger.Logger

	// Component options collected before construction.
	classifierOpts []classify.Option
	routerOpts     []route.Option
	builderOpts    []dispatch.Option
}

// New constructs the service. Taxonomy, roster and store are required; the
// rewriter is optional.
func New(taxonomy *classify.Taxonomy, roster *route.Roster, store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	s.classifier = classify.NewClassifier(taxonomy, s.classifierOpts...)
	s.router = route.NewRouter(roster, s.routerOpts...)
	s.builder = dispatch.NewBuilder(s.builderOpts...)
	if s.log == nil {
		s.log = logger.Named("pipeline")
	}
	return s
}

// ProcessBatch runs the pipeline over a finite article batch. Validation
// failures skip the offending article and are reported; storage failures
// abort the run and propagate.
func (s *Service) ProcessBatch(ctx context.Context, articles []model.Article) (BatchReport, error) {
	report := BatchReport{Results: make([]Result, 0, len(articles))}
	for _, article := range articles {
		res, err := s.ProcessArticle(ctx, article)
		if err != nil {
			if errors.Is(err, dispatch.ErrInvalidArticle) || errors.Is(err, dispatch.ErrUnknownVoice) {
				metrics.RecordArticleSkipped()
				report.Skipped++
				report.Results = append(report.Results, Result{
					ArticleURL: article.URL,
					SkipReason: err.Error(),
				})
				s.log.Warn(ctx, "article skipped",
					logger.String("url", article.URL),
					logger.Error(err))
				continue
			}
			// Storage and other failures are not per-article; stop here.
			return report, err
		}
		if res.Written {
			report.Written++
		} else {
			report.Existing++
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// ProcessArticle runs one article through the pipeline.
func (s *Service) ProcessArticle(ctx context.Context, article model.Article) (Result, error) {
	scores := s.classifier.Classify(ctx, article)
	voice := s.router.Route(ctx, scores)

	var rewrite string
	if s.rewriter != nil {
		text, err := s.rewriter.Rewrite(ctx, article, voice)
		if err != nil {
			// Degrade to the templated body; the rewrite is best-effort.
			s.log.Warn(ctx, "rewrite unavailable, using templated body",
				logger.String("url", article.URL),
				logger.Error(err))
		} else {
			rewrite = text
		}
	}

	rec, err := s.builder.Build(ctx, article, scores, voice, rewrite)
	if err != nil {
		return Result{}, err
	}

	written, err := s.store.Put(ctx, rec)
	if err != nil {
		return Result{}, fmt.Errorf("store dispatch %s: %w", rec.ID, err)
	}
	if written {
		metrics.RecordDispatchWritten()
	} else {
		metrics.RecordDispatchExisting()
	}

	s.log.Info(ctx, "dispatch stored",
		logger.String("id", rec.ID),
		logger.String("voice", rec.Voice),
		logger.String("tags", route.DescribeTags(scores)),
		logger.Bool("created", written))

	return Result{
		ArticleURL: article.URL,
		ID:         rec.ID,
		Voice:      rec.Voice,
		Tags:       rec.Tags,
		Written:    written,
	}, nil
}

// Get returns a stored dispatch by id.
func (s *Service) Get(ctx context.Context, id string) (repository.Record, error) {
	return s.store.Get(ctx, id)
}

// List returns stored dispatches matching the filter, newest first.
func (s *Service) List(ctx context.Context, f repository.Filter) ([]repository.Record, error) {
	return s.store.List(ctx, f)
}

// NewSession opens a narration session over the store.
func (s *Service) NewSession() *narration.Session {
	return narration.NewSession(s.store, narration.WithLogger(s.log.Named("narration")))
}
