package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/zmanim-etl/internal/adapter/chabad"
	"github.com/couchcryptid/zmanim-etl/internal/config"
	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zmanctl",
		Short:         "Collect and inspect resolved zmanim",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCollectCmd())
	root.AddCommand(newShowCmd())

	return root
}

// app is the shared setup of every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  observability.NewStderrLogger(cfg),
		metrics: observability.NewMetrics(),
	}, nil
}

func (a *app) source() domain.WindowSource {
	client := chabad.NewClient(a.cfg.UpstreamBaseURL, a.cfg.UpstreamLanguage, a.cfg.UpstreamTimeout, a.metrics, a.logger)
	return chabad.NewCachedSource(client, a.cfg.UpstreamCacheSize, a.metrics)
}
