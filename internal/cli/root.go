// Package cli implements the sentinelctl control commands: fetch articles,
// generate dispatches, and drive narration sessions.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/app"
	"github.com/fortsentinel/dispatch/internal/config"
	"github.com/fortsentinel/dispatch/internal/domain/classify"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/route"
	"github.com/fortsentinel/dispatch/pkg/logger"
)

// NewRootCommand builds the sentinelctl command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sentinelctl",
		Short:         "Fort Sentinel dispatch pipeline control",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		NewFetchCommand(),
		NewGenerateCommand(),
		NewListCommand(),
		NewReadCommand(),
		NewBatchCommand(),
	)
	return rootCmd
}

// buildService loads configuration and wires the pipeline service.
func buildService(ctx context.Context) (*app.Service, *config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, nil, err
	}
	roster, err := config.LoadRoster(cfg.PersonasPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := repository.NewFileStore(cfg.DispatchDir)
	if err != nil {
		return nil, nil, err
	}

	svc := app.New(taxonomy, roster, store,
		app.WithLogger(logger.Get()),
		app.WithClassifierOptions(
			classify.WithTitleWeight(cfg.TitleWeight),
			classify.WithBodyWeight(cfg.BodyWeight),
		),
		app.WithRouterOptions(
			route.WithThreshold(cfg.RouteThreshold),
			route.WithTopK(cfg.RouteTopK),
		),
		app.WithBuilderOptions(dispatch.WithBodyLimit(cfg.BodyLimit)),
	)
	return svc, cfg, nil
}
