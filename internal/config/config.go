package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultUpstreamBaseURL is the Chabad.org zmanim endpoint.
const DefaultUpstreamBaseURL = "https://www.chabad.org/webservices/zmanim/zmanim/Get_Zmanim"

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Upstream zmanim service, used by the collector and zmanctl.
	UpstreamBaseURL   string
	UpstreamLanguage  string
	UpstreamTimeout   time.Duration
	UpstreamCacheSize int

	// CollectorConfig is the path of the collector's YAML file.
	CollectorConfig string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeoutStr := sharedcfg.EnvOrDefault("UPSTREAM_TIMEOUT", "10s")
	upstreamTimeout, err2 := time.ParseDuration(upstreamTimeoutStr)
	if err2 != nil || upstreamTimeout <= 0 {
		return nil, errors.New("invalid UPSTREAM_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-zmanim-windows"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "resolved-zmanim-days"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "zmanim-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		UpstreamBaseURL:   sharedcfg.EnvOrDefault("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL),
		UpstreamLanguage:  sharedcfg.EnvOrDefault("UPSTREAM_LANGUAGE", "he"),
		UpstreamTimeout:   upstreamTimeout,
		UpstreamCacheSize: parseUpstreamCacheSize(),
		CollectorConfig:   sharedcfg.EnvOrDefault("COLLECTOR_CONFIG", "collector.yaml"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.UpstreamLanguage != "he" && cfg.UpstreamLanguage != "en" {
		return nil, fmt.Errorf("UPSTREAM_LANGUAGE must be he or en, got %q", cfg.UpstreamLanguage)
	}

	return cfg, nil
}

func parseUpstreamCacheSize() int {
	if s := os.Getenv("UPSTREAM_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
