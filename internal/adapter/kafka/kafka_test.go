package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawWindow(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("city:247"),
		Value:     []byte(`{"requested_days":4}`),
		Topic:     "raw-zmanim-windows",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte("run-1")},
		},
	}

	raw := mapMessageToRawWindow(msg)

	assert.Equal(t, []byte("city:247"), raw.Key)
	assert.JSONEq(t, `{"requested_days":4}`, string(raw.Value))
	assert.Equal(t, "raw-zmanim-windows", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "run-1", raw.Headers["run_id"])
	assert.Nil(t, raw.Commit)
}

func TestToKafkaMessage_SortsHeaders(t *testing.T) {
	msg := toKafkaMessage(domain.OutputMessage{
		Key:   []byte("zmanim-0123456789abcdef"),
		Value: []byte(`{}`),
		Headers: map[string]string{
			"processed_at": "2024-09-26T06:00:00Z",
			"date":         "2024-09-27",
			"location_key": "city:247",
		},
	})

	assert.Equal(t, []byte("zmanim-0123456789abcdef"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "date", msg.Headers[0].Key)
	assert.Equal(t, []byte("2024-09-27"), msg.Headers[0].Value)
	assert.Equal(t, "location_key", msg.Headers[1].Key)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
}

func TestEnvelopeToMessage(t *testing.T) {
	collected := time.Date(2024, time.September, 26, 3, 0, 0, 0, time.UTC)
	env := domain.WindowEnvelope{
		RunID:         "run-7",
		CollectedAt:   collected,
		Location:      domain.CityLocation(domain.City{HebName: "חיפה", EngName: "Haifa", LocationID: 689}),
		RequestedDays: 7,
	}

	msg, err := envelopeToMessage(env)
	require.NoError(t, err)

	assert.Equal(t, []byte("city:689"), msg.Key)
	assert.Equal(t, collected, msg.Time)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "run_id", msg.Headers[2].Key)
	assert.Equal(t, []byte("run-7"), msg.Headers[2].Value)

	var decoded domain.WindowEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, 7, decoded.RequestedDays)
	assert.Equal(t, 689, decoded.Location.City.LocationID)
}
