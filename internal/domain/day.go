package domain

import (
	"slices"
	"time"
)

// Day holds the calendar metadata of one upstream day.
type Day struct {
	Date        time.Time    `json:"date"`
	Weekday     time.Weekday `json:"weekday"`
	IsHoliday   bool         `json:"is_holiday"`
	HolidayName string       `json:"holiday_name,omitempty"`
	IsFastDay   bool         `json:"is_fast_day"`
	Parsha      string       `json:"parsha,omitempty"`
}

// DayRecord is one day's metadata plus its zmanim keyed by kind. Each kind
// occurs at most once.
type DayRecord struct {
	Day
	Location string

	zmanim map[ZmanKind]Zman

	// rest is IsRestDay before resolution copied times onto the day.
	rest *bool
}

// NewDayRecord returns an empty record for day.
func NewDayRecord(day Day) *DayRecord {
	return &DayRecord{
		Day:    day,
		zmanim: make(map[ZmanKind]Zman),
	}
}

// Add inserts z. It fails with *DuplicateEventError if the kind is present.
func (d *DayRecord) Add(z Zman) error {
	if _, ok := d.zmanim[z.Kind]; ok {
		return &DuplicateEventError{Date: d.Date, Kind: z.Kind}
	}
	d.zmanim[z.Kind] = z
	return nil
}

// addAll inserts every zman or none of them.
func (d *DayRecord) addAll(zs []Zman) error {
	seen := make(map[ZmanKind]struct{}, len(zs))
	for _, z := range zs {
		_, dup := seen[z.Kind]
		if dup || d.Has(z.Kind) {
			return &DuplicateEventError{Date: d.Date, Kind: z.Kind}
		}
		seen[z.Kind] = struct{}{}
	}
	for _, z := range zs {
		d.zmanim[z.Kind] = z
	}
	return nil
}

// Has reports whether the day carries kind.
func (d *DayRecord) Has(kind ZmanKind) bool {
	_, ok := d.zmanim[kind]
	return ok
}

// Zman returns a copy of the zman of the given kind, or *MissingEventError
// listing the kinds that are available.
func (d *DayRecord) Zman(kind ZmanKind) (Zman, error) {
	z, ok := d.zmanim[kind]
	if !ok {
		return Zman{}, &MissingEventError{Date: d.Date, Kind: kind, Available: d.AvailableZmanim()}
	}
	return z, nil
}

// AvailableZmanim lists the kind names present on the day.
func (d *DayRecord) AvailableZmanim() []string {
	names := make([]string, 0, len(d.zmanim))
	for _, z := range d.Zmanim() {
		names = append(names, z.Kind.String())
	}
	return names
}

// Zmanim returns copies of all zmanim in catalogue order.
func (d *DayRecord) Zmanim() []Zman {
	out := make([]Zman, 0, len(d.zmanim))
	for _, z := range d.zmanim {
		out = append(out, z)
	}
	slices.SortFunc(out, func(a, b Zman) int { return int(a.Kind) - int(b.Kind) })
	return out
}

// Len returns the number of zmanim on the day.
func (d *DayRecord) Len() int {
	return len(d.zmanim)
}

// Clone returns a deep copy of d.
func (d *DayRecord) Clone() *DayRecord {
	c := &DayRecord{
		Day:      d.Day,
		Location: d.Location,
		zmanim:   make(map[ZmanKind]Zman, len(d.zmanim)),
	}
	if d.rest != nil {
		rest := *d.rest
		c.rest = &rest
	}
	for k, z := range d.zmanim {
		c.zmanim[k] = z
	}
	return c
}

func (d *DayRecord) captureRestDay() {
	rest := IsRestDay(d)
	d.rest = &rest
}

// UpstreamRestDay is IsRestDay for the day as the upstream sent it. A resolved
// eve carries a copied end-of-rest time, so IsRestDay alone would call it a
// Sabbath.
func (d *DayRecord) UpstreamRestDay() bool {
	if d.rest != nil {
		return *d.rest
	}
	return IsRestDay(d)
}
