package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifiers(t *testing.T) {
	saturday := friday2024.AddDate(0, 0, 1)
	thursday := friday2024.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		date       time.Time
		holiday    bool
		zmanim     []Zman
		wantFast   bool
		wantRest   bool
		wantBegins bool
		wantChain  bool
	}{
		{
			name: "ordinary weekday",
			date: thursday,
			zmanim: []Zman{
				NewZman(Shkiah, "18:40"),
			},
		},
		{
			name:       "friday eve",
			date:       friday2024,
			zmanim:     []Zman{NewZman(CandleLighting, "18:22")},
			wantBegins: true,
			wantChain:  true,
		},
		{
			name:     "sabbath",
			date:     saturday,
			zmanim:   []Zman{NewZman(ShabbatEndTime, "19:30")},
			wantRest: true,
		},
		{
			name:    "festival on saturday is not a rest day",
			date:    saturday,
			holiday: true,
			zmanim:  []Zman{NewZman(ShabbatEndTime, "19:30")},
		},
		{
			name:      "first festival day footnoted",
			date:      thursday,
			holiday:   true,
			zmanim:    []Zman{footnoted(ShabbatEndTime, "19:30", FootnoteLightCandlesAfter)},
			wantChain: true,
		},
		{
			name:       "friday festival day with sabbath candles",
			date:       friday2024,
			holiday:    true,
			zmanim:     []Zman{NewZman(CandleLighting, "18:20")},
			wantBegins: true,
			wantChain:  true,
		},
		{
			name:      "friday with second-day candles only",
			date:      friday2024,
			holiday:   true,
			zmanim:    []Zman{NewZman(SecondDayCandleLighting, "19:25")},
			wantChain: true,
		},
		{
			name:       "thursday eve is not chained",
			date:       thursday,
			zmanim:     []Zman{NewZman(CandleLighting, "18:20")},
			wantBegins: true,
		},
		{
			name: "end time decides over friday rule",
			date: friday2024,
			zmanim: []Zman{
				NewZman(CandleLighting, "18:20"),
				NewZman(ShabbatEndTime, "19:30"),
			},
			wantRest:   true,
			wantBegins: true,
		},
		{
			name:     "fast start",
			date:     thursday,
			zmanim:   []Zman{NewZman(FastStarts, "04:30")},
			wantFast: true,
		},
		{
			name:     "fast end",
			date:     thursday,
			zmanim:   []Zman{NewZman(FastEnds, "19:10")},
			wantFast: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDayRecord(Day{Date: tc.date, Weekday: tc.date.Weekday(), IsHoliday: tc.holiday})
			for _, z := range tc.zmanim {
				assert.NoError(t, d.Add(z))
			}

			assert.Equal(t, tc.wantFast, IsFastDay(d), "IsFastDay")
			assert.Equal(t, tc.wantRest, IsRestDay(d), "IsRestDay")
			assert.Equal(t, tc.wantBegins, BeginsRestPeriod(d), "BeginsRestPeriod")
			assert.Equal(t, tc.wantChain, IsChainedRestEve(d), "IsChainedRestEve")
		})
	}
}
