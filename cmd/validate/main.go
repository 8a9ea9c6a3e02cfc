// Command validate performs data integrity checks across the window envelope
// fixtures: envelope shape, upstream day contents, chain resolution and the
// published day schema. Run it after regenerating fixtures with genmock.
//
// Usage:
//
//	go run ./cmd/validate -mock-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// fixture is one envelope file and what became of it.
type fixture struct {
	name     string
	env      domain.WindowEnvelope
	resolved *domain.ResolvedWindow
}

func main() {
	mockDir := flag.String("mock-dir", "data/mock", "directory containing window envelope fixtures")
	flag.Parse()

	if code := run(*mockDir); code != 0 {
		os.Exit(code)
	}
}

func run(mockDir string) int {
	// Set a fixed clock matching genmock for ID reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.September, 26, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Zmanim Fixture Integrity Validation ===")
	fmt.Println()

	fixtures, err := loadFixtures(mockDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixtures: %v\n", err)
		return 1
	}
	if len(fixtures) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no fixtures in %s\n", mockDir)
		return 1
	}

	// Phases run in order; resolution fills fixture.resolved for the last one.
	phases := []*phase{
		validateEnvelopes(fixtures),
		validateUpstreamDays(fixtures),
		validateResolution(fixtures),
		validatePublishedSchema(fixtures),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Fixtures: %d, upstream days: %d\n", len(fixtures), countDays(fixtures))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadFixtures(dir string) ([]*fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "window_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make([]*fixture, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		env, err := domain.ParseEnvelope(domain.RawWindow{Value: data})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, &fixture{name: filepath.Base(path), env: env})
	}
	return out, nil
}

func countDays(fixtures []*fixture) int {
	n := 0
	for _, f := range fixtures {
		n += len(f.env.Response.Days)
	}
	return n
}

// ── Phase 1: Envelopes ──
// Validates the collector-side envelope fields.

func validateEnvelopes(fixtures []*fixture) *phase {
	p := &phase{name: "Phase 1: Envelopes"}
	for _, f := range fixtures {
		if err := f.env.Location.Validate(); err != nil {
			p.errorf("%s: location: %v", f.name, err)
		}
		if f.env.CollectedAt.IsZero() {
			p.errorf("%s: collected_at is not set", f.name)
		}
		if f.env.RequestedDays < 1 {
			p.errorf("%s: requested_days %d < 1", f.name, f.env.RequestedDays)
		}
		if got := len(f.env.Response.Days); got < domain.MinWindowDays {
			p.errorf("%s: %d upstream days, resolver needs %d", f.name, got, domain.MinWindowDays)
		}
	}
	return p
}

// ── Phase 2: Upstream Days ──
// Validates that every raw day parses and the days form a contiguous run.

func validateUpstreamDays(fixtures []*fixture) *phase {
	p := &phase{name: "Phase 2: Upstream Days"}
	for _, f := range fixtures {
		w, err := domain.ParseWindow(f.env.Response)
		if err != nil {
			p.errorf("%s: %v", f.name, err)
			continue
		}
		if err := w.Validate(); err != nil {
			p.errorf("%s: %v", f.name, err)
		}
		for i, d := range w {
			if d.Date.Weekday() != d.Weekday {
				p.errorf("%s: day %d: weekday %s does not match date %s", f.name, i, d.Weekday, d.Date.Format(time.DateOnly))
			}
			if d.IsFastDay && !d.Has(domain.FastStarts) && !d.Has(domain.FastEnds) {
				p.errorf("%s: day %d: fast day without fast times", f.name, i)
			}
		}
	}
	return p
}

// ── Phase 3: Resolution ──
// Validates that each fixture resolves and day 0 carries its chain result.

func validateResolution(fixtures []*fixture) *phase {
	p := &phase{name: "Phase 3: Resolution"}
	for _, f := range fixtures {
		rw, err := domain.BuildWindow(f.env.Response, f.env.Location, f.env.RequestedDays)
		if err != nil {
			p.errorf("%s: %v", f.name, err)
			continue
		}
		f.resolved = &rw
		checkChain(p, f.name, rw)
	}
	return p
}

func checkChain(p *phase, name string, rw domain.ResolvedWindow) {
	day0 := rw.Days[0]
	if !domain.BeginsRestPeriod(day0) {
		if rw.Chain.State != domain.ScanNotStarted {
			p.errorf("%s: day 0 is not an eve but chain state is %s", name, rw.Chain.State)
		}
		return
	}
	if rw.Chain.State != domain.ScanResolved {
		p.errorf("%s: chain state %s, want resolved", name, rw.Chain.State)
		return
	}
	if !day0.Has(domain.ShabbatEndTime) {
		p.errorf("%s: day 0 has no end-of-rest time after resolution", name)
	}
	for _, m := range rw.Chain.Markers {
		if !day0.Has(m.Kind) {
			p.errorf("%s: day 0 is missing chain marker %s", name, m.Kind)
		}
	}
	for i, d := range rw.Days {
		if d.Location != rw.Location.Label() {
			p.errorf("%s: day %d: location %q, want %q", name, i, d.Location, rw.Location.Label())
		}
	}
}

// ── Phase 4: Published Schema ──
// Validates the serialized days the sink topic would receive.

func validatePublishedSchema(fixtures []*fixture) *phase {
	p := &phase{name: "Phase 4: Published Schema"}
	seen := make(map[string]string)
	for _, f := range fixtures {
		if f.resolved == nil {
			continue
		}
		for i, d := range f.resolved.Days {
			day := domain.NewResolvedDay(d, f.resolved.Location)
			msg, err := domain.SerializeDay(day)
			if err != nil {
				p.errorf("%s: day %d: %v", f.name, i, err)
				continue
			}
			if prev, dup := seen[day.ID]; dup {
				p.errorf("%s: day %d: id %s already used by %s", f.name, i, day.ID, prev)
			}
			seen[day.ID] = f.name
			checkSchemaRecord(p, f.name, i, msg.Value)
		}
	}
	return p
}

func checkSchemaRecord(p *phase, name string, i int, value []byte) {
	var got map[string]any
	if err := json.Unmarshal(value, &got); err != nil {
		p.errorf("%s: day %d: %v", name, i, err)
		return
	}
	for _, field := range []string{"id", "date", "weekday", "is_rest_day", "location", "location_key", "zmanim", "important", "processed_at"} {
		if _, ok := got[field]; !ok {
			p.errorf("%s: day %d: missing field %q", name, i, field)
		}
	}

	var day domain.ResolvedDay
	if err := json.Unmarshal(value, &day); err != nil {
		p.errorf("%s: day %d: %v", name, i, err)
		return
	}
	for _, z := range day.Important {
		if !domain.IsImportant(z.Kind) {
			p.errorf("%s: day %d: %s listed as important", name, i, z.Kind)
		}
		if _, err := time.Parse("15:04", z.Time); err != nil {
			p.errorf("%s: day %d: %s has invalid time %q", name, i, z.Kind, z.Time)
		}
	}
}
