// Package collector fetches upstream windows on a schedule and publishes them
// as envelopes to the source topic.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
)

// Publisher delivers one envelope to the source topic.
type Publisher interface {
	Publish(ctx context.Context, env domain.WindowEnvelope) error
}

// RunResult summarizes one collection pass.
type RunResult struct {
	RunID     string
	Published int
	Failed    int
}

// Collector requests a window per configured location and publishes it.
type Collector struct {
	source    domain.WindowSource
	publisher Publisher
	locations []domain.Location
	days      int
	schedule  string
	clock     clockwork.Clock
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a collector for cfg, which must have passed Validate.
func New(cfg *Config, source domain.WindowSource, publisher Publisher, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) (*Collector, error) {
	locations, err := cfg.ResolvedLocations()
	if err != nil {
		return nil, err
	}
	return &Collector{
		source:    source,
		publisher: publisher,
		locations: locations,
		days:      cfg.Days,
		schedule:  cfg.Schedule,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// RunOnce collects every location for today. A failing location is logged
// and counted; the rest still run. The error is non-nil only when ctx ends.
func (c *Collector) RunOnce(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}
	now := c.clock.Now()
	logger := c.logger.With("run_id", res.RunID)

	for _, loc := range c.locations {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := c.collect(ctx, res.RunID, now, loc); err != nil {
			res.Failed++
			c.metrics.EnvelopesPublished.WithLabelValues("failed").Inc()
			logger.Error("collect location failed",
				"location", loc.Key(),
				"error", err,
			)
			continue
		}
		res.Published++
		c.metrics.EnvelopesPublished.WithLabelValues("published").Inc()
	}

	logger.Info("collection finished",
		"published", res.Published,
		"failed", res.Failed,
	)
	return res, nil
}

func (c *Collector) collect(ctx context.Context, runID string, now time.Time, loc domain.Location) error {
	req, err := domain.NewWindowRequest(loc, now, c.days)
	if err != nil {
		return err
	}
	resp, err := c.source.FetchWindow(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if len(resp.Days) == 0 {
		return fmt.Errorf("fetch: no days returned for %s", req.Start.Format(time.DateOnly))
	}

	env := domain.WindowEnvelope{
		RunID:         runID,
		CollectedAt:   now.UTC(),
		Location:      loc,
		RequestedDays: c.days,
		Response:      resp,
	}
	if err := c.publisher.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Run executes RunOnce on the configured schedule until ctx is canceled.
// Overlapping ticks are skipped.
func (c *Collector) Run(ctx context.Context) error {
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := sched.AddFunc(c.schedule, func() {
		if _, err := c.RunOnce(ctx); err != nil {
			c.logger.Warn("collection interrupted", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", c.schedule, err)
	}

	c.logger.Info("collector started",
		"schedule", c.schedule,
		"locations", len(c.locations),
		"days", c.days,
	)
	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	c.logger.Info("collector stopped")
	return nil
}
