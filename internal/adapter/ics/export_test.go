package ics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

var stampTime = time.Date(2024, time.September, 26, 6, 0, 0, 0, time.UTC)

func loadWindow(t *testing.T, name string) domain.ResolvedWindow {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "data", "mock", name))
	require.NoError(t, err)
	env, err := domain.ParseEnvelope(domain.RawWindow{Value: data})
	require.NoError(t, err)
	rw, err := domain.BuildWindow(env.Response, env.Location, env.RequestedDays)
	require.NoError(t, err)
	return rw
}

func importantCount(windows ...domain.ResolvedWindow) int {
	n := 0
	for _, w := range windows {
		for _, d := range w.Days {
			n += len(domain.ImportantZmanim(d))
		}
	}
	return n
}

func findEvent(t *testing.T, cal *ical.Calendar, uid string) *ical.VEvent {
	t.Helper()
	for _, ev := range cal.Events() {
		if ev.Id() == uid {
			return ev
		}
	}
	require.Failf(t, "event not found", "uid %s", uid)
	return nil
}

func TestExport_ShabbatWindow(t *testing.T) {
	rw := loadWindow(t, "window_shabbat_240927.json")
	e := NewExporter(clockwork.NewFakeClockAt(stampTime), false)

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, rw))

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, cal.Events(), importantCount(rw))

	ev := findEvent(t, cal, "city-247-20240927-CandleLighting@zmanim-etl")
	assert.Equal(t, "Candle Lighting", ev.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "ירושלים", ev.GetProperty(ical.ComponentPropertyLocation).Value)

	start, err := ev.GetStartAt()
	require.NoError(t, err)
	// 18:22 Israel daylight time.
	assert.True(t, start.Equal(time.Date(2024, time.September, 27, 15, 22, 0, 0, time.UTC)), "got %s", start)

	sat := findEvent(t, cal, "city-247-20240928-ShabbatEndTime@zmanim-etl")
	assert.Equal(t, "Nitzavim-Vayelech", sat.GetProperty(ical.ComponentPropertyDescription).Value)
}

func TestExport_HebrewTitles(t *testing.T) {
	rw := loadWindow(t, "window_rosh_hashana_241002.json")
	cal, err := NewExporter(clockwork.NewFakeClockAt(stampTime), true).Calendar(rw)
	require.NoError(t, err)

	ev := findEvent(t, cal, "city-247-20241002-ThirdDayCandleLighting@zmanim-etl")
	assert.Equal(t, domain.ThirdDayCandleLighting.HebTitle(), ev.GetProperty(ical.ComponentPropertySummary).Value)
}

func TestCalendar_MultipleWindows(t *testing.T) {
	a := loadWindow(t, "window_shabbat_240927.json")
	b := loadWindow(t, "window_rosh_hashana_230915.json")

	cal, err := NewExporter(clockwork.NewFakeClockAt(stampTime), false).Calendar(a, b)
	require.NoError(t, err)
	assert.Len(t, cal.Events(), importantCount(a, b))

	uids := make(map[string]bool)
	for _, ev := range cal.Events() {
		assert.False(t, uids[ev.Id()], "duplicate uid %s", ev.Id())
		uids[ev.Id()] = true
	}

	ev := findEvent(t, cal, "coords-31.77800_35.23500-20230915-SecondDayCandleLighting@zmanim-etl")
	assert.Equal(t, "Old City", ev.GetProperty(ical.ComponentPropertyLocation).Value)
}

func TestCalendar_UnknownTimeZone(t *testing.T) {
	rw := loadWindow(t, "window_rosh_hashana_230915.json")
	rw.Location.Coordinates.TimeZone = "Mars/Olympus_Mons"

	_, err := NewExporter(clockwork.NewFakeClockAt(stampTime), false).Calendar(rw)
	assert.ErrorContains(t, err, "load time zone")
}

func TestCalendar_Empty(t *testing.T) {
	cal, err := NewExporter(clockwork.NewFakeClockAt(stampTime), false).Calendar()
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
	assert.Contains(t, cal.Serialize(), "PRODID:"+productID)
}
