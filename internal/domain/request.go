package domain

import (
	"context"
	"fmt"
	"time"
)

// MaxRequestDays bounds one upstream request.
const MaxRequestDays = 180

// WindowRequest asks the times service for the days in [Start, End].
type WindowRequest struct {
	Location Location
	Start    time.Time
	End      time.Time
}

// NewWindowRequest builds the request for days days starting at date. The span
// is widened to the resolver's lookahead when fewer days are requested.
func NewWindowRequest(loc Location, date time.Time, days int) (WindowRequest, error) {
	if days < 1 || days >= MaxRequestDays {
		return WindowRequest{}, fmt.Errorf("days must be between 1 and %d, got %d", MaxRequestDays-1, days)
	}
	start := truncateToDate(date)
	span := max(days, MinWindowDays)
	req := WindowRequest{
		Location: loc,
		Start:    start,
		End:      start.AddDate(0, 0, span),
	}
	return req, req.Validate()
}

// Validate checks the location and the date range.
func (r WindowRequest) Validate() error {
	if err := r.Location.Validate(); err != nil {
		return fmt.Errorf("invalid request location: %w", err)
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("start date %s must be before end date %s", formatDate(r.Start), formatDate(r.End))
	}
	if r.End.Sub(r.Start) > MaxRequestDays*24*time.Hour {
		return fmt.Errorf("date range %s..%s exceeds %d days", formatDate(r.Start), formatDate(r.End), MaxRequestDays)
	}
	return nil
}

// WindowSource fetches the upstream response for a request.
type WindowSource interface {
	FetchWindow(ctx context.Context, req WindowRequest) (UpstreamResponse, error)
}

// ResolvedWindow is the outcome of BuildWindow.
type ResolvedWindow struct {
	Location Location
	Days     Window
	Chain    ChainScan
}

// BuildWindow turns one upstream response into resolved, located days: parse,
// resolve the rest-period chain starting at day 0, stamp the location on every
// day, then keep only the first requestedDays days.
func BuildWindow(resp UpstreamResponse, loc Location, requestedDays int) (ResolvedWindow, error) {
	if requestedDays < 1 {
		return ResolvedWindow{}, fmt.Errorf("requested days must be positive, got %d", requestedDays)
	}
	if err := loc.Validate(); err != nil {
		return ResolvedWindow{}, err
	}

	w, err := ParseWindow(resp)
	if err != nil {
		return ResolvedWindow{}, err
	}

	chain, err := Resolve(w)
	if err != nil {
		return ResolvedWindow{}, fmt.Errorf("resolve window from %s: %w", formatDate(w[0].Date), err)
	}

	AnnotateLocation(w, loc)

	if len(w) > requestedDays {
		w = w[:requestedDays]
	}
	return ResolvedWindow{Location: loc, Days: w, Chain: chain}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
