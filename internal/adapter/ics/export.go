// Package ics renders resolved zmanim as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

const productID = "-//couchcryptid//zmanim-etl//EN"

// Exporter builds calendars with one event per important zman.
type Exporter struct {
	clock  clockwork.Clock
	hebrew bool
}

// NewExporter creates an exporter. With hebrew set, event summaries use the
// Hebrew titles.
func NewExporter(clock clockwork.Clock, hebrew bool) *Exporter {
	return &Exporter{clock: clock, hebrew: hebrew}
}

// Calendar assembles the events for windows without serializing them.
func (e *Exporter) Calendar(windows ...domain.ResolvedWindow) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Zmanim")

	stamp := e.clock.Now().UTC()
	for _, w := range windows {
		tz, err := time.LoadLocation(w.Location.TimeZone())
		if err != nil {
			return nil, fmt.Errorf("location %s: load time zone: %w", w.Location.Key(), err)
		}
		for _, d := range w.Days {
			for _, z := range domain.ImportantZmanim(d) {
				at, err := z.At(d.Date, tz)
				if err != nil {
					return nil, fmt.Errorf("location %s %s: %w", w.Location.Key(), d.Date.Format(time.DateOnly), err)
				}
				ev := cal.AddEvent(eventUID(w.Location, d.Date, z.Kind))
				ev.SetDtStampTime(stamp)
				ev.SetStartAt(at)
				ev.SetEndAt(at)
				ev.SetSummary(e.title(z.Kind))
				ev.SetLocation(w.Location.Label())
				if desc := description(d); desc != "" {
					ev.SetDescription(desc)
				}
			}
		}
	}
	return cal, nil
}

// Export writes the serialized calendar for windows to w.
func (e *Exporter) Export(out io.Writer, windows ...domain.ResolvedWindow) error {
	cal, err := e.Calendar(windows...)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func (e *Exporter) title(kind domain.ZmanKind) string {
	if e.hebrew {
		return kind.HebTitle()
	}
	return kind.EngTitle()
}

func eventUID(loc domain.Location, date time.Time, kind domain.ZmanKind) string {
	key := strings.NewReplacer(":", "-", ",", "_").Replace(loc.Key())
	return fmt.Sprintf("%s-%s-%s@zmanim-etl", key, date.Format("20060102"), kind)
}

func description(d *domain.DayRecord) string {
	var parts []string
	if d.HolidayName != "" {
		parts = append(parts, d.HolidayName)
	}
	if d.Parsha != "" {
		parts = append(parts, d.Parsha)
	}
	return strings.Join(parts, " / ")
}
