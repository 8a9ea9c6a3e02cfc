package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

// defaultCities are shown when no location flag is given.
var defaultCities = []string{"jerusalem", "tel-aviv", "haifa", "beer-sheva"}

func newShowCmd() *cobra.Command {
	var (
		cities   []string
		coords   []string
		date     string
		days     int
		opts     renderOptions
		template string
	)

	c := &cobra.Command{
		Use:   "show",
		Short: "Fetch, resolve and print zmanim for one or more locations",
		Example: `  zmanctl show
  zmanctl show --city jerusalem --days 3 --format json
  zmanctl show --coords "40.7128,-74.006,America/New_York,New York" --format ics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			locs, err := parseLocations(cities, coords)
			if err != nil {
				return err
			}
			start := time.Now()
			if date != "" {
				if start, err = time.Parse(time.DateOnly, date); err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			src := a.source()

			windows := make([]domain.ResolvedWindow, 0, len(locs))
			for _, loc := range locs {
				req, err := domain.NewWindowRequest(loc, start, days)
				if err != nil {
					return err
				}
				resp, err := src.FetchWindow(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("location %s: %w", loc.Label(), err)
				}
				rw, err := domain.BuildWindow(resp, loc, days)
				if err != nil {
					return fmt.Errorf("location %s: %w", loc.Label(), err)
				}
				windows = append(windows, rw)
			}

			opts.clock = clockwork.NewRealClock()
			if template != "" {
				opts.template = &template
			}
			return render(cmd.OutOrStdout(), windows, opts)
		},
	}

	c.Flags().StringSliceVar(&cities, "city", nil, "city slug, repeatable (jerusalem, tel-aviv, haifa, beer-sheva)")
	c.Flags().StringArrayVar(&coords, "coords", nil, `coordinates "lat,lon,zone[,name]", repeatable`)
	c.Flags().StringVar(&date, "date", "", "first day, YYYY-MM-DD (default today)")
	c.Flags().IntVar(&days, "days", 1, "number of days to show")
	c.Flags().StringVar(&opts.format, "format", formatText, "output format: text, json or ics")
	c.Flags().BoolVar(&opts.hebrew, "hebrew", true, "use Hebrew zman titles")
	c.Flags().StringVar(&template, "template", "", `text wrapper where {1} is replaced by the zmanim, e.g. "Today's zmanim:\n{1}"`)
	return c
}

func parseLocations(cities, coords []string) ([]domain.Location, error) {
	if len(cities) == 0 && len(coords) == 0 {
		cities = defaultCities
	}
	locs := make([]domain.Location, 0, len(cities)+len(coords))
	for _, slug := range cities {
		c, err := domain.LookupCity(slug)
		if err != nil {
			return nil, err
		}
		locs = append(locs, domain.CityLocation(c))
	}
	for _, s := range coords {
		c, err := domain.ParseCoordinates(s)
		if err != nil {
			return nil, err
		}
		locs = append(locs, domain.CoordinatesLocation(c))
	}
	if len(locs) == 0 {
		return nil, errors.New("no locations")
	}
	return locs, nil
}
