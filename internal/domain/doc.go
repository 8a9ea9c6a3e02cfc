// Package domain models daily zmanim (liturgical times of day) and resolves
// the end of a Sabbath or festival onto the day it begins.
//
// # Data Source
//
// Day records originate from the Chabad.org zmanim web service. The collector
// requests a date range for a city or a coordinate pair and publishes the raw
// response, wrapped in a WindowEnvelope, to the Kafka source topic. Times are
// precomputed upstream in the location's own time zone; this package never
// converts or computes them.
//
// # Upstream Conventions
//
// Dates:
//
//	DisplayDate is "MM/DD/YYYY". DayOfWeek is 0-6 with 0 = Sunday, matching
//	time.Weekday.
//
// Time groups:
//
//	Each day carries a list of TimeGroups. ZmanType names the kind
//	("CandleLighting", "ShabbatEndTime", ...), Items[0].Zman holds the clock
//	time as "HH:MM". A kind appears at most once per day.
//
// Footnotes:
//
//	An end-of-rest time footnoted "LightCandlesAfter" means the rest period
//	does not end that night: the next day is a festival or Sabbath too, and
//	candles are lit after that time.
//
// # Rest Period Resolution
//
// Candle-lighting marks the eve of a rest period. The matching end time sits
// on a later day: the next day for an ordinary Sabbath, up to three days
// later when festival days and a Sabbath run together. ScanChain walks at
// most three days ahead:
//
//	eve (candle lighting) -> day 1 -> day 2 -> day 3
//
// A lookahead day that is not a chained rest eve closes the chain with its
// ShabbatEndTime. A chained day adds SecondDayCandleLighting (day 1) or
// ThirdDayCandleLighting (day 2) to the eve and the scan continues. Running
// out of lookahead is a ChainResolutionError, never a guess.
//
// Examples:
//
//	Friday eve, Saturday ends                 -> CandleLighting, ShabbatEndTime
//	Festival eve, day 1 chained, day 2 ends   -> + SecondDayCandleLighting
//	Wednesday eve of a Thursday-Friday festival
//	running into Saturday                     -> + Second- and ThirdDayCandleLighting
//
// # IDs
//
// Published days are keyed by a SHA-256 of location key and date, so
// reprocessing a window yields the same message keys.
package domain
