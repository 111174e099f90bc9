package config

import (
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	if cfg.Health.Interval != 30*time.Second {
		t.Errorf("health interval = %v, want 30s", cfg.Health.Interval)
	}
	if cfg.Health.Timeout != 5*time.Second {
		t.Errorf("health timeout = %v, want 5s", cfg.Health.Timeout)
	}
	if cfg.Search.Debounce != 500*time.Millisecond {
		t.Errorf("search debounce = %v, want 500ms", cfg.Search.Debounce)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000/api" {
		t.Errorf("backend url = %q", cfg.Backend.BaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HEALTH_INTERVAL", "10")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadEnv()

	if cfg.Health.Interval != 10*time.Second {
		t.Errorf("health interval = %v, want 10s", cfg.Health.Interval)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("search debounce = %v, want 250ms", cfg.Search.Debounce)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Errorf("kafka brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("redis db = %d, want fallback 0", cfg.Redis.DB)
	}
}
