package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// RawWindow is an unprocessed message from the source topic. Its value is a
// JSON WindowEnvelope.
type RawWindow struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// WindowEnvelope is what the collector publishes: one upstream response plus
// the location it was requested for and how many days the consumer wants.
type WindowEnvelope struct {
	RunID         string           `json:"run_id,omitempty"`
	CollectedAt   time.Time        `json:"collected_at"`
	Location      Location         `json:"location"`
	RequestedDays int              `json:"requested_days"`
	Response      UpstreamResponse `json:"response"`
}

// OutputMessage is the serialized form destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ResolvedDay is the published JSON form of one enriched day. IsRestDay
// describes the day as the upstream sent it, before resolution.
type ResolvedDay struct {
	Day

	ID          string    `json:"id"`
	IsRestDay   bool      `json:"is_rest_day"`
	Location    string    `json:"location"`
	LocationKey string    `json:"location_key"`
	Zmanim      []Zman    `json:"zmanim"`
	Important   []Zman    `json:"important"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ParseEnvelope decodes a raw source message.
func ParseEnvelope(raw RawWindow) (WindowEnvelope, error) {
	var env WindowEnvelope
	if err := json.Unmarshal(raw.Value, &env); err != nil {
		return WindowEnvelope{}, fmt.Errorf("parse window envelope: %w", err)
	}
	return env, nil
}

// NewResolvedDay projects d into its published form, stamping ProcessedAt.
func NewResolvedDay(d *DayRecord, loc Location) ResolvedDay {
	return ResolvedDay{
		ID:          dayID(loc, d.Date),
		Day:         d.Day,
		IsRestDay:   d.UpstreamRestDay(),
		Location:    d.Location,
		LocationKey: loc.Key(),
		Zmanim:      d.Zmanim(),
		Important:   ImportantZmanim(d),
		ProcessedAt: clock.Now().UTC(),
	}
}

// SerializeDay marshals a resolved day into a sink message keyed by its ID.
func SerializeDay(day ResolvedDay) (OutputMessage, error) {
	data, err := json.Marshal(day)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize resolved day: %w", err)
	}
	return OutputMessage{
		Key:   []byte(day.ID),
		Value: data,
		Headers: map[string]string{
			"date":         day.Date.Format(time.DateOnly),
			"location_key": day.LocationKey,
			"processed_at": day.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// dayID is deterministic per location and date so a replayed window produces
// the same keys.
func dayID(loc Location, date time.Time) string {
	hash := sha256.Sum256([]byte(loc.Key() + "|" + date.Format(time.DateOnly)))
	return "zmanim-" + hex.EncodeToString(hash[:8])
}
