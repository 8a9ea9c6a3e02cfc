package domain

import "fmt"

// MinWindowDays is the smallest window the resolver accepts: the eve plus three
// days of lookahead, enough for two festival days followed by a Sabbath.
const MinWindowDays = 4

// maxChainOffset is the last window offset the scan inspects.
const maxChainOffset = MinWindowDays - 1

// Window is a run of consecutive days. Index 0 is the day under resolution;
// the rest are lookahead.
type Window []*DayRecord

// Validate checks length, nil records and date contiguity.
func (w Window) Validate() error {
	if len(w) < MinWindowDays {
		return &InvalidWindowError{Len: len(w), Reason: fmt.Sprintf("need at least %d days", MinWindowDays)}
	}
	for i, d := range w {
		if d == nil {
			return &InvalidWindowError{Len: len(w), Reason: fmt.Sprintf("day %d is nil", i)}
		}
		if i == 0 {
			continue
		}
		if want := w[i-1].Date.AddDate(0, 0, 1); !d.Date.Equal(want) {
			return &InvalidWindowError{
				Len:    len(w),
				Reason: fmt.Sprintf("day %d is %s, expected %s", i, formatDate(d.Date), formatDate(want)),
			}
		}
	}
	return nil
}

// ScanState is the position of a chain scan.
type ScanState int

const (
	// ScanNotStarted means day 0 does not begin a rest period; nothing to do.
	ScanNotStarted ScanState = iota
	// ScanScanning means the scan is inspecting the day at Offset.
	ScanScanning
	// ScanResolved means Terminal holds the end-of-rest time for day 0.
	ScanResolved
	// ScanFailed means Err explains why the window cannot be resolved.
	ScanFailed
)

func (s ScanState) String() string {
	switch s {
	case ScanNotStarted:
		return "not_started"
	case ScanScanning:
		return "scanning"
	case ScanResolved:
		return "resolved"
	case ScanFailed:
		return "failed"
	default:
		return fmt.Sprintf("ScanState(%d)", int(s))
	}
}

// ChainScan is the outcome of walking a window forward from a rest-period eve.
// Markers are the intermediate candle-lighting times found on chained days,
// in order; Terminal is the end-of-rest time that closes the chain.
type ChainScan struct {
	State    ScanState
	Offset   int
	Markers  []Zman
	Terminal Zman
	Err      error
}

// ScanChain walks w forward from day 0 without modifying it.
//
// For each lookahead day: a day that is not a chained rest eve supplies the
// terminal end-of-rest time. A chained day contributes a second- or third-day
// candle-lighting marker, timed from its own end-of-rest time when present and
// from its candle-lighting time otherwise, and the scan moves on.
func ScanChain(w Window) ChainScan {
	s := ChainScan{State: ScanNotStarted}
	if err := w.Validate(); err != nil {
		return s.fail(err)
	}
	if !BeginsRestPeriod(w[0]) {
		return s
	}

	s.State, s.Offset = ScanScanning, 1
	for s.State == ScanScanning {
		s = s.step(w)
	}
	return s
}

func (s ChainScan) step(w Window) ChainScan {
	if s.Offset > maxChainOffset {
		return s.fail(&ChainResolutionError{Start: w[0].Date, Scanned: maxChainOffset})
	}

	day := w[s.Offset]
	if !IsChainedRestEve(day) {
		end, err := day.Zman(ShabbatEndTime)
		if err != nil {
			return s.fail(err)
		}
		s.Terminal = end.Retimed(ShabbatEndTime)
		s.State = ScanResolved
		return s
	}

	if kind, ok := chainMarkerKind(s.Offset); ok {
		source, err := chainTransitionTime(day)
		if err != nil {
			return s.fail(err)
		}
		s.Markers = append(append([]Zman(nil), s.Markers...), source.Retimed(kind))
	}
	s.Offset++
	return s
}

func (s ChainScan) fail(err error) ChainScan {
	s.State = ScanFailed
	s.Err = err
	return s
}

// chainMarkerKind names the marker synthesized for a chained day at offset.
func chainMarkerKind(offset int) (ZmanKind, bool) {
	switch offset {
	case 1:
		return SecondDayCandleLighting, true
	case 2:
		return ThirdDayCandleLighting, true
	default:
		return 0, false
	}
}

// chainTransitionTime picks the time a chained day hands over to the next
// rest day: its end-of-rest time, or lacking one, its candle-lighting time.
func chainTransitionTime(day *DayRecord) (Zman, error) {
	if day.Has(ShabbatEndTime) {
		return day.Zman(ShabbatEndTime)
	}
	return day.Zman(CandleLighting)
}

// Resolve scans w and, when day 0 begins a rest period, attaches the chain
// markers and the terminal end-of-rest time to day 0 in place.
//
// Either every addition lands or none does: on any error the window is left
// exactly as it was passed in.
func Resolve(w Window) (ChainScan, error) {
	s := ScanChain(w)
	switch s.State {
	case ScanNotStarted:
		return s, nil
	case ScanResolved:
		additions := make([]Zman, 0, len(s.Markers)+1)
		additions = append(additions, s.Markers...)
		additions = append(additions, s.Terminal)
		w[0].captureRestDay()
		if err := w[0].addAll(additions); err != nil {
			w[0].rest = nil
			return s.fail(err), err
		}
		return s, nil
	default:
		if s.Err == nil {
			s = s.fail(fmt.Errorf("chain scan stopped in state %s", s.State))
		}
		return s, s.Err
	}
}
