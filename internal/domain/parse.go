package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpstreamDateLayout is the upstream DisplayDate and request date format.
const UpstreamDateLayout = "01/02/2006"

// UpstreamResponse is the body returned by the times service for a date range.
type UpstreamResponse struct {
	Days []RawDay `json:"Days"`
}

// RawDay is one upstream day. Pointer fields are mandatory and distinguish
// "absent" from a zero value.
type RawDay struct {
	DisplayDate *string        `json:"DisplayDate"`
	DayOfWeek   *int           `json:"DayOfWeek"`
	IsHoliday   *bool          `json:"IsHoliday"`
	HolidayName *string        `json:"HolidayName"`
	Parsha      *string        `json:"Parsha"`
	TimeGroups  []RawTimeGroup `json:"TimeGroups"`
}

// RawTimeGroup is one named time within an upstream day.
type RawTimeGroup struct {
	ZmanType     string        `json:"ZmanType"`
	Title        string        `json:"Title"`
	FootnoteType *string       `json:"FootnoteType"`
	Items        []RawTimeItem `json:"Items"`
}

// RawTimeItem carries the clock time. Only the first item of a group is used.
type RawTimeItem struct {
	Zman *string `json:"Zman"`
}

// ParseWindow parses every upstream day in order.
func ParseWindow(resp UpstreamResponse) (Window, error) {
	if len(resp.Days) == 0 {
		return nil, errors.New("parse window: upstream response has no days")
	}
	w := make(Window, 0, len(resp.Days))
	for i, raw := range resp.Days {
		d, err := ParseDay(raw)
		if err != nil {
			return nil, fmt.Errorf("parse window: day %d: %w", i, err)
		}
		w = append(w, d)
	}
	return w, nil
}

// ParseDay maps one upstream day onto a DayRecord. Every time group becomes a
// zman; duplicate kinds fail with *DuplicateEventError.
func ParseDay(raw RawDay) (*DayRecord, error) {
	if raw.DisplayDate == nil {
		return nil, errors.New("missing DisplayDate")
	}
	if raw.DayOfWeek == nil {
		return nil, errors.New("missing DayOfWeek")
	}
	if raw.IsHoliday == nil {
		return nil, errors.New("missing IsHoliday")
	}

	date, err := time.Parse(UpstreamDateLayout, strings.TrimSpace(*raw.DisplayDate))
	if err != nil {
		return nil, fmt.Errorf("parse DisplayDate %q: %w", *raw.DisplayDate, err)
	}
	if *raw.DayOfWeek < 0 || *raw.DayOfWeek > 6 {
		return nil, fmt.Errorf("DayOfWeek %d out of range 0-6", *raw.DayOfWeek)
	}

	d := NewDayRecord(Day{
		Date:        date,
		Weekday:     time.Weekday(*raw.DayOfWeek),
		IsHoliday:   *raw.IsHoliday,
		HolidayName: derefOrEmpty(raw.HolidayName),
		Parsha:      derefOrEmpty(raw.Parsha),
	})

	for _, g := range raw.TimeGroups {
		z, err := parseTimeGroup(g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", formatDate(date), err)
		}
		if err := d.Add(z); err != nil {
			return nil, err
		}
	}

	d.IsFastDay = IsFastDay(d)
	return d, nil
}

func parseTimeGroup(g RawTimeGroup) (Zman, error) {
	if g.ZmanType == "" {
		return Zman{}, errors.New("time group missing ZmanType")
	}
	kind, err := ParseZmanKind(g.ZmanType)
	if err != nil {
		return Zman{}, err
	}
	if len(g.Items) == 0 || g.Items[0].Zman == nil {
		return Zman{}, fmt.Errorf("time group %s has no time", g.ZmanType)
	}

	z := NewZman(kind, strings.TrimSpace(*g.Items[0].Zman))
	z.RawTitle = g.Title
	z.FootnoteType = derefOrEmpty(g.FootnoteType)
	return z, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
