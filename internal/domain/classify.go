package domain

import "time"

// IsFastDay reports whether d has a fast start or fast end time.
func IsFastDay(d *DayRecord) bool {
	return d.Has(FastStarts) || d.Has(FastEnds)
}

// IsRestDay reports whether d is a plain Sabbath: it carries an end-of-rest
// time and is not flagged a holiday.
//
// This checks "ends a rest period and is not a holiday", which is not the same
// as "is a Sabbath": a festival day falling on Saturday is reported false.
// Callers that need the festival case must check IsHoliday themselves.
func IsRestDay(d *DayRecord) bool {
	return d.Has(ShabbatEndTime) && !d.IsHoliday
}

// BeginsRestPeriod reports whether d is the eve of a Sabbath or festival.
func BeginsRestPeriod(d *DayRecord) bool {
	return d.Has(CandleLighting)
}

// IsChainedRestEve reports whether d continues a multi-day rest period
// instead of ending it.
//
// When d has an end-of-rest time, the upstream footnote decides. Otherwise a
// Friday that already carries a candle-lighting time is a festival day running
// straight into the Sabbath.
func IsChainedRestEve(d *DayRecord) bool {
	if end, err := d.Zman(ShabbatEndTime); err == nil {
		return end.FootnoteType == FootnoteLightCandlesAfter
	}
	if d.Weekday != time.Friday {
		return false
	}
	return d.Has(CandleLighting) || d.Has(SecondDayCandleLighting) || d.Has(ThirdDayCandleLighting)
}
