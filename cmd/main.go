package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fortsentinel/dispatch/internal/adapters/http/api"
	"github.com/fortsentinel/dispatch/internal/adapters/llm"
	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/app"
	"github.com/fortsentinel/dispatch/internal/config"
	"github.com/fortsentinel/dispatch/internal/domain/classify"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/route"
	"github.com/fortsentinel/dispatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Custom registry only; the default Go collectors would duplicate what
	// the metrics manager already exports.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		os.Stderr.WriteString("failed to load taxonomy: " + err.Error() + "\n")
		return
	}
	roster, err := config.LoadRoster(cfg.PersonasPath)
	if err != nil {
		os.Stderr.WriteString("failed to load personas: " + err.Error() + "\n")
		return
	}
	store, err := repository.NewFileStore(cfg.DispatchDir)
	if err != nil {
		os.Stderr.WriteString("failed to open dispatch store: " + err.Error() + "\n")
		return
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithClassifierOptions(
			classify.WithTitleWeight(cfg.TitleWeight),
			classify.WithBodyWeight(cfg.BodyWeight),
		),
		app.WithRouterOptions(
			route.WithThreshold(cfg.RouteThreshold),
			route.WithTopK(cfg.RouteTopK),
		),
		app.WithBuilderOptions(dispatch.WithBodyLimit(cfg.BodyLimit)),
	}
	if cfg.RewriteEndpoint != "" {
		rewriter, rerr := llm.NewClient(cfg.RewriteEndpoint, cfg.RewriteModel, cfg.RewriteAPIKey)
		if rerr != nil {
			os.Stderr.WriteString("failed to build rewrite client: " + rerr.Error() + "\n")
			return
		}
		opts = append(opts, app.WithRewriter(rewriter))
	}

	svc := app.New(taxonomy, roster, store, opts...)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", logger.Error(err))
	}
}
