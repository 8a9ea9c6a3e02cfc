package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zmanim-etl/internal/adapter/ics"
	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatICS  = "ics"
)

type renderOptions struct {
	format   string
	hebrew   bool
	template *string
	clock    clockwork.Clock
}

func render(w io.Writer, windows []domain.ResolvedWindow, opts renderOptions) error {
	switch opts.format {
	case formatText, "":
		text := formatZmanimText(windows, opts.hebrew)
		if opts.template != nil {
			text = fillPlaceholders(*opts.template, text)
		}
		_, err := io.WriteString(w, text)
		return err
	case formatJSON:
		return writeDaysJSON(w, windows)
	case formatICS:
		return ics.NewExporter(opts.clock, opts.hebrew).Export(w, windows...)
	default:
		return fmt.Errorf("unknown format %q (want text, json or ics)", opts.format)
	}
}

// formatZmanimText groups each important zman title with its time per
// location, one block per day:
//
//	2024-09-27 Friday
//	הדלקת נרות:
//		ירושלים: 18:22
//		חיפה: 18:36
func formatZmanimText(windows []domain.ResolvedWindow, hebrew bool) string {
	var b strings.Builder
	for i := range maxDays(windows) {
		header := false
		for _, kind := range domain.ImportantKinds() {
			var lines []string
			for _, w := range windows {
				if i >= len(w.Days) {
					continue
				}
				z, err := w.Days[i].Zman(kind)
				if err != nil {
					continue
				}
				lines = append(lines, fmt.Sprintf("\t%s: %s\n", w.Days[i].Location, z.Time))
			}
			if len(lines) == 0 {
				continue
			}
			if !header {
				d := firstDay(windows, i)
				fmt.Fprintf(&b, "%s %s\n", d.Date.Format("2006-01-02"), d.Weekday)
				header = true
			}
			fmt.Fprintf(&b, "%s:\n", title(kind, hebrew))
			for _, l := range lines {
				b.WriteString(l)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func title(kind domain.ZmanKind, hebrew bool) string {
	if hebrew {
		return kind.HebTitle()
	}
	return kind.EngTitle()
}

func maxDays(windows []domain.ResolvedWindow) int {
	n := 0
	for _, w := range windows {
		n = max(n, len(w.Days))
	}
	return n
}

func firstDay(windows []domain.ResolvedWindow, i int) *domain.DayRecord {
	for _, w := range windows {
		if i < len(w.Days) {
			return w.Days[i]
		}
	}
	return nil
}

// fillPlaceholders replaces {1}, {2}, ... in tpl with values in order. A
// template without values is returned unchanged.
func fillPlaceholders(tpl string, values ...string) string {
	for i, v := range values {
		tpl = strings.ReplaceAll(tpl, fmt.Sprintf("{%d}", i+1), v)
	}
	return tpl
}

func writeDaysJSON(w io.Writer, windows []domain.ResolvedWindow) error {
	var days []domain.ResolvedDay //nolint:prealloc // size depends on window lengths
	for _, win := range windows {
		for _, d := range win.Days {
			days = append(days, domain.NewResolvedDay(d, win.Location))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}
