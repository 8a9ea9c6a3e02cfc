//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/zmanim-etl/internal/adapter/kafka"
	"github.com/couchcryptid/zmanim-etl/internal/config"
	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
	"github.com/couchcryptid/zmanim-etl/internal/pipeline"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// resolvedMessage holds a deserialized message read from the sink topic.
type resolvedMessage struct {
	Day     domain.ResolvedDay
	Key     string
	Headers map[string]string
}

// readResolved reads a single message from the sink consumer and deserializes it.
func readResolved(ctx context.Context, t *testing.T, consumer *kafkago.Reader) resolvedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var day domain.ResolvedDay
	require.NoError(t, json.Unmarshal(msg.Value, &day), "unmarshal sink message")

	return resolvedMessage{
		Day:     day,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: EnvelopeWriter publishes,
// kafka.Reader extracts, and kafka.Writer loads the resolved days.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")

	envs := loadMockData(t)
	env := envs[len(envs)-1] // window_shabbat_240927.json
	env.RunID = "run-1"

	publisher := kafka.NewEnvelopeWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })
	require.NoError(t, publisher.Publish(ctx, env))

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawWindow
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("city:247"), raw.Key)
	assert.Equal(t, "run-1", raw.Headers["run_id"])
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(discardLogger(), observability.NewMetricsForTesting())
	days, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)
	require.Len(t, days, 4)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, days))

	consumer := sinkConsumer(t, broker)
	first := readResolved(ctx, t, consumer)
	assert.Equal(t, "2024-09-27", first.Headers["date"])
	assert.Equal(t, "city:247", first.Headers["location_key"])
	_, err = time.Parse(time.RFC3339, first.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")
	assert.Equal(t, first.Day.ID, first.Key)

	byKind := map[domain.ZmanKind]string{}
	for _, z := range first.Day.Important {
		byKind[z.Kind] = z.Time
	}
	assert.Equal(t, map[domain.ZmanKind]string{
		domain.CandleLighting: "18:22",
		domain.ShabbatEndTime: "19:34",
	}, byKind)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka and verifies every fixture day arrives resolved.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-pipeline")

	envs := loadMockData(t)
	publisher := kafka.NewEnvelopeWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	wantDays := 0
	for _, env := range envs {
		require.NoError(t, publisher.Publish(ctx, env))
		wantDays += env.RequestedDays
	}

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := make(map[string]resolvedMessage, wantDays)
	for len(received) < wantDays {
		rm := readResolved(ctx, t, consumer)
		received[rm.Headers["location_key"]+"|"+rm.Headers["date"]] = rm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))

	// Three-day chain: Rosh Hashana Thursday-Friday into Shabbat.
	eve, ok := received["city:247|2024-10-02"]
	require.True(t, ok, "missing 2024-10-02 for Jerusalem")
	assert.Equal(t, []string{
		"CandleLighting=18:06",
		"SecondDayCandleLighting=19:03",
		"ThirdDayCandleLighting=18:03",
		"ShabbatEndTime=19:00",
	}, summary(eve.Day))
	assert.False(t, eve.Day.IsRestDay, "an eve is not a rest day")

	fast, ok := received["city:247|2024-10-06"]
	require.True(t, ok, "missing fast of Gedaliah")
	assert.True(t, fast.Day.IsFastDay)
	assert.Equal(t, []string{"FastStarts=04:58", "FastEnds=18:57"}, summary(fast.Day))

	// Coordinates fixture keeps its custom name.
	old, ok := received["coords:31.77800,35.23500|2023-09-15"]
	require.True(t, ok, "missing coordinates fixture")
	assert.Equal(t, "Old City", old.Day.Location)
	assert.Equal(t, []string{
		"CandleLighting=18:19",
		"SecondDayCandleLighting=19:31",
		"ShabbatEndTime=19:29",
	}, summary(old.Day))
}

// TestPipelineTransformError verifies that an invalid window (poison pill) is
// skipped and the pipeline continues processing valid windows.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	// A Friday whose Shabbat has no end time cannot be resolved.
	envs := loadMockData(t)
	good := envs[len(envs)-1]
	good.RequestedDays = 1
	broken := good
	broken.Response = domain.UpstreamResponse{Days: append([]domain.RawDay(nil), good.Response.Days...)}
	broken.Response.Days[1].TimeGroups = nil
	brokenPayload, err := json.Marshal(broken)
	require.NoError(t, err)
	goodPayload, err := json.Marshal(good)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad-json"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("unresolvable"), Value: brokenPayload},
		kafkago.Message{Key: []byte("good"), Value: goodPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid window's single day should appear on the sink topic.
	consumer := sinkConsumer(t, broker)
	rm := readResolved(ctx, t, consumer)
	assert.Equal(t, "2024-09-27", rm.Headers["date"])

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}

func summary(d domain.ResolvedDay) []string {
	out := make([]string, 0, len(d.Important))
	for _, z := range d.Important {
		out = append(out, z.Kind.String()+"="+z.Time)
	}
	return out
}
