package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DuplicateEventError reports an attempt to add a zman kind a day already carries.
type DuplicateEventError struct {
	Date time.Time
	Kind ZmanKind
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("zman %s already exists on %s", e.Kind, formatDate(e.Date))
}

// MissingEventError reports a lookup of a zman kind a day does not carry.
// Available lists what the day does have.
type MissingEventError struct {
	Date      time.Time
	Kind      ZmanKind
	Available []string
}

func (e *MissingEventError) Error() string {
	return fmt.Sprintf("zman %s is not available on %s; available zmanim are: [%s]",
		e.Kind, formatDate(e.Date), strings.Join(e.Available, ", "))
}

// ChainResolutionError reports that the forward scan from a rest-period eve
// ran out of lookahead without finding the terminal end-of-rest time.
type ChainResolutionError struct {
	Start   time.Time
	Scanned int
}

func (e *ChainResolutionError) Error() string {
	return fmt.Sprintf("rest period starting %s not resolved within %d days of lookahead",
		formatDate(e.Start), e.Scanned)
}

// InvalidWindowError reports a window the resolver cannot work with.
type InvalidWindowError struct {
	Len    int
	Reason string
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window of %d days: %s", e.Len, e.Reason)
}

// ErrorReason classifies err into a short label for metrics and logs.
func ErrorReason(err error) string {
	var (
		dup     *DuplicateEventError
		missing *MissingEventError
		chain   *ChainResolutionError
		window  *InvalidWindowError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &dup):
		return "duplicate_event"
	case errors.As(err, &missing):
		return "missing_event"
	case errors.As(err, &chain):
		return "chain_resolution"
	case errors.As(err, &window):
		return "invalid_window"
	default:
		return "parse"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(time.DateOnly)
}
