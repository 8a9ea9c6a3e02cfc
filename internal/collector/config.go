package collector

import (
	"errors"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
)

const (
	defaultSchedule = "0 3 * * *"
	defaultDays     = 7
)

// LocationConfig names one location to collect: a city slug or a coordinate
// block, never both.
type LocationConfig struct {
	City        string              `yaml:"city,omitempty"`
	Coordinates *domain.Coordinates `yaml:"coordinates,omitempty"`
}

// Config is the collector's YAML file.
type Config struct {
	// Schedule is a standard five-field cron expression.
	Schedule  string           `yaml:"schedule"`
	Days      int              `yaml:"days"`
	Locations []LocationConfig `yaml:"locations"`
}

// LoadConfig reads path, applies defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("collector config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collector config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse collector config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Schedule == "" {
		c.Schedule = defaultSchedule
	}
	if c.Days <= 0 {
		c.Days = defaultDays
	}
}

// Validate checks the schedule, the day count and every location.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}
	if c.Days >= domain.MaxRequestDays {
		return fmt.Errorf("days must be below %d, got %d", domain.MaxRequestDays, c.Days)
	}
	if len(c.Locations) == 0 {
		return errors.New("collector config lists no locations")
	}
	for i, lc := range c.Locations {
		if _, err := lc.Location(); err != nil {
			return fmt.Errorf("location %d: %w", i, err)
		}
	}
	return nil
}

// Location resolves the entry to a validated domain location.
func (lc LocationConfig) Location() (domain.Location, error) {
	switch {
	case lc.City != "" && lc.Coordinates != nil:
		return domain.Location{}, errors.New("set either city or coordinates, not both")
	case lc.City != "":
		city, err := domain.LookupCity(lc.City)
		if err != nil {
			return domain.Location{}, err
		}
		return domain.CityLocation(city), nil
	case lc.Coordinates != nil:
		loc := domain.CoordinatesLocation(*lc.Coordinates)
		if err := loc.Validate(); err != nil {
			return domain.Location{}, err
		}
		return loc, nil
	default:
		return domain.Location{}, errors.New("no location was provided")
	}
}

// ResolvedLocations returns every configured location. Call after Validate.
func (c *Config) ResolvedLocations() ([]domain.Location, error) {
	out := make([]domain.Location, 0, len(c.Locations))
	for i, lc := range c.Locations {
		loc, err := lc.Location()
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		out = append(out, loc)
	}
	return out, nil
}
