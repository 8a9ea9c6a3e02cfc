package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
)

// WindowTransformer implements Transformer: it decodes a window envelope,
// resolves the rest-period chain on its first day and serializes every
// requested day.
type WindowTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a WindowTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *WindowTransformer {
	return &WindowTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *WindowTransformer) Transform(_ context.Context, raw domain.RawWindow) ([]domain.OutputMessage, error) {
	env, err := domain.ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	rw, err := domain.BuildWindow(env.Response, env.Location, env.RequestedDays)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", env.Location.Key(), err)
	}

	if rw.Chain.State == domain.ScanResolved {
		t.metrics.ChainLength.Observe(float64(rw.Chain.Offset))
		t.logger.Debug("rest period resolved",
			"date", rw.Days[0].Date.Format("2006-01-02"),
			"location", env.Location.Key(),
			"chain_length", rw.Chain.Offset,
		)
	}

	out := make([]domain.OutputMessage, 0, len(rw.Days))
	for _, d := range rw.Days {
		msg, err := domain.SerializeDay(domain.NewResolvedDay(d, env.Location))
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
