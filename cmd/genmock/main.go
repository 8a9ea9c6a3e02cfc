// Command genmock wraps a captured zmanim service response into a window
// envelope fixture. It runs the actual domain resolution on the result so the
// fixture is known to pass through the pipeline, and prints the resolved
// important zmanim for updating test assertions.
//
// Usage:
//
//	curl -s 'https://www.chabad.org/webservices/zmanim/zmanim/Get_Zmanim?...' > resp.json
//	go run ./cmd/genmock \
//	  -response resp.json \
//	  -city jerusalem -days 4 \
//	  -out data/mock/window_shabbat_240927.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

// collectedAt is stamped on every fixture so regenerated files diff cleanly.
var collectedAt = time.Date(2024, time.September, 26, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	respPath := flag.String("response", "", "captured upstream JSON response")
	city := flag.String("city", "", "city slug, e.g. jerusalem")
	coords := flag.String("coords", "", "coordinates as lat,lon,zone[,name]")
	days := flag.Int("days", 0, "requested days (default: every day in the response)")
	out := flag.String("out", "", "output path for the envelope fixture")
	resolvedOut := flag.String("resolved-out", "", "optional output path for the resolved days")
	flag.Parse()

	if *respPath == "" || *out == "" {
		flag.Usage()
		return errors.New("missing required flags: -response, -out")
	}

	loc, err := parseLocation(*city, *coords)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*respPath)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var resp domain.UpstreamResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	requested := *days
	if requested <= 0 {
		requested = len(resp.Days)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(collectedAt))
	defer domain.SetClock(nil)

	rw, err := domain.BuildWindow(resp, loc, requested)
	if err != nil {
		return fmt.Errorf("fixture does not resolve: %w", err)
	}

	env := domain.WindowEnvelope{
		CollectedAt:   collectedAt,
		Location:      loc,
		RequestedDays: requested,
		Response:      resp,
	}
	if err := writeJSON(*out, env); err != nil {
		return fmt.Errorf("writing envelope fixture: %w", err)
	}
	log.Printf("wrote envelope fixture: %s (%d days)", *out, len(resp.Days))

	if *resolvedOut != "" {
		resolved := make([]domain.ResolvedDay, 0, len(rw.Days))
		for _, d := range rw.Days {
			resolved = append(resolved, domain.NewResolvedDay(d, loc))
		}
		if err := writeJSON(*resolvedOut, resolved); err != nil {
			return fmt.Errorf("writing resolved fixture: %w", err)
		}
		log.Printf("wrote resolved fixture: %s", *resolvedOut)
	}

	printStats(rw)
	return nil
}

func parseLocation(city, coords string) (domain.Location, error) {
	switch {
	case city != "" && coords != "":
		return domain.Location{}, errors.New("use either -city or -coords")
	case city != "":
		c, err := domain.LookupCity(city)
		if err != nil {
			return domain.Location{}, err
		}
		return domain.CityLocation(c), nil
	case coords != "":
		c, err := domain.ParseCoordinates(coords)
		if err != nil {
			return domain.Location{}, err
		}
		return domain.CoordinatesLocation(c), nil
	default:
		return domain.Location{}, errors.New("missing location: -city or -coords")
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(rw domain.ResolvedWindow) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Location: %s (%s)\n", rw.Location.Label(), rw.Location.Key())
	fmt.Printf("Chain: %s, terminal offset %d, markers %d\n", rw.Chain.State, rw.Chain.Offset, len(rw.Chain.Markers))

	for i, d := range rw.Days {
		fmt.Printf("day %d %s %s rest=%t fast=%t",
			i, d.Date.Format(time.DateOnly), d.Weekday, d.UpstreamRestDay(), d.IsFastDay)
		if d.HolidayName != "" {
			fmt.Printf(" holiday=%q", d.HolidayName)
		}
		fmt.Println()
		for _, z := range domain.ImportantZmanim(d) {
			fmt.Printf("  %s=%s\n", z.Kind, z.Time)
		}
	}
}
