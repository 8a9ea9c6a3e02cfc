package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LocationType mirrors the upstream locationtype parameter.
type LocationType int

const (
	LocationCity        LocationType = 1
	LocationZipCode     LocationType = 2 // accepted upstream, not modelled here
	LocationCoordinates LocationType = 3
)

// DefaultCoordinatesName labels coordinates that were given no name.
const DefaultCoordinatesName = "Default location name"

// City is a place the upstream service knows by id.
type City struct {
	HebName    string `json:"heb_name"`
	EngName    string `json:"eng_name"`
	LocationID int    `json:"location_id"`
	TimeZone   string `json:"time_zone,omitempty"`
}

// Coordinates is an arbitrary point with the IANA zone the upstream service
// should compute times in.
type Coordinates struct {
	Lat        float64 `json:"lat" yaml:"lat"`
	Lon        float64 `json:"lon" yaml:"lon"`
	TimeZone   string  `json:"time_zone" yaml:"time_zone"`
	CustomName string  `json:"custom_name,omitempty" yaml:"name,omitempty"`
}

// Location is exactly one of a city or a coordinate pair.
type Location struct {
	City        *City        `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// israelTimeZone is the zone of every city the service is queried for by id.
const israelTimeZone = "Asia/Jerusalem"

var cities = map[string]City{
	"jerusalem":  {HebName: "ירושלים", EngName: "Jerusalem", LocationID: 247, TimeZone: israelTimeZone},
	"tel-aviv":   {HebName: "תל אביב", EngName: "Tel Aviv", LocationID: 531, TimeZone: israelTimeZone},
	"haifa":      {HebName: "חיפה", EngName: "Haifa", LocationID: 689, TimeZone: israelTimeZone},
	"beer-sheva": {HebName: "באר שבע", EngName: "Beer Sheva", LocationID: 688, TimeZone: israelTimeZone},
}

// LookupCity finds a known city by slug, e.g. "tel-aviv". Matching ignores case
// and treats spaces and underscores as dashes.
func LookupCity(slug string) (City, error) {
	key := strings.ToLower(strings.TrimSpace(slug))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	c, ok := cities[key]
	if !ok {
		return City{}, fmt.Errorf("unknown city %q", slug)
	}
	return c, nil
}

// ParseCoordinates reads "lat,lon,zone" with an optional trailing ",name",
// e.g. "40.7128,-74.006,America/New_York,New York".
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.SplitN(s, ",", 4)
	if len(parts) < 3 {
		return Coordinates{}, fmt.Errorf("coordinates %q: want lat,lon,zone[,name]", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("coordinates %q: invalid latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("coordinates %q: invalid longitude", s)
	}
	c := Coordinates{Lat: lat, Lon: lon, TimeZone: strings.TrimSpace(parts[2])}
	if c.TimeZone == "" {
		return Coordinates{}, fmt.Errorf("coordinates %q: missing time zone", s)
	}
	if len(parts) == 4 {
		c.CustomName = strings.TrimSpace(parts[3])
	}
	return c, nil
}

// CityLocation wraps a city as a Location.
func CityLocation(c City) Location {
	return Location{City: &c}
}

// CoordinatesLocation wraps coordinates as a Location, filling the default name.
func CoordinatesLocation(c Coordinates) Location {
	if c.CustomName == "" {
		c.CustomName = DefaultCoordinatesName
	}
	return Location{Coordinates: &c}
}

// Validate requires exactly one representation.
func (l Location) Validate() error {
	switch {
	case l.City != nil && l.Coordinates != nil:
		return errors.New("only one type of location is allowed")
	case l.City == nil && l.Coordinates == nil:
		return errors.New("no location was provided")
	case l.Coordinates != nil && l.Coordinates.TimeZone == "":
		return errors.New("coordinates require a time zone")
	}
	return nil
}

// Type reports which representation l uses. Zero means invalid.
func (l Location) Type() LocationType {
	switch {
	case l.City != nil && l.Coordinates == nil:
		return LocationCity
	case l.Coordinates != nil && l.City == nil:
		return LocationCoordinates
	default:
		return 0
	}
}

// Label is the display name stamped on resolved days.
func (l Location) Label() string {
	switch l.Type() {
	case LocationCity:
		return l.City.HebName
	case LocationCoordinates:
		if l.Coordinates.CustomName == "" {
			return DefaultCoordinatesName
		}
		return l.Coordinates.CustomName
	default:
		return ""
	}
}

// Key is a stable identity for caching and message keys.
func (l Location) Key() string {
	switch l.Type() {
	case LocationCity:
		return fmt.Sprintf("city:%d", l.City.LocationID)
	case LocationCoordinates:
		return fmt.Sprintf("coords:%.5f,%.5f", l.Coordinates.Lat, l.Coordinates.Lon)
	default:
		return ""
	}
}

// TimeZone is the IANA zone the location's clock times are expressed in.
func (l Location) TimeZone() string {
	switch l.Type() {
	case LocationCity:
		if l.City.TimeZone == "" {
			return israelTimeZone
		}
		return l.City.TimeZone
	case LocationCoordinates:
		return l.Coordinates.TimeZone
	default:
		return ""
	}
}

// AnnotateLocation stamps loc's label on every day of w.
func AnnotateLocation(w Window, loc Location) {
	label := loc.Label()
	for _, d := range w {
		d.Location = label
	}
}
