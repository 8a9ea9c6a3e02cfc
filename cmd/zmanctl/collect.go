package main

import (
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/zmanim-etl/internal/adapter/kafka"
	"github.com/couchcryptid/zmanim-etl/internal/collector"
)

func newCollectCmd() *cobra.Command {
	var (
		configPath string
		once       bool
	)

	c := &cobra.Command{
		Use:   "collect",
		Short: "Fetch windows for the configured locations and publish them to the source topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if configPath == "" {
				configPath = a.cfg.CollectorConfig
			}
			ccfg, err := collector.LoadConfig(configPath)
			if err != nil {
				return err
			}

			writer := kafkaadapter.NewEnvelopeWriter(a.cfg, a.logger)
			defer func() {
				if err := writer.Close(); err != nil {
					a.logger.Error("kafka writer close error", "error", err)
				}
			}()

			col, err := collector.New(ccfg, a.source(), writer, clockwork.NewRealClock(), a.metrics, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if once {
				_, err := col.RunOnce(ctx)
				return err
			}
			return col.Run(ctx)
		},
	}

	c.Flags().StringVar(&configPath, "config", "", "collector YAML file (default $COLLECTOR_CONFIG)")
	c.Flags().BoolVar(&once, "once", false, "collect a single time and exit instead of following the schedule")
	return c
}
