package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "CACHE_ENABLED", "CACHE_TTL", "REDIS_ADDR", "EVENTS_ENABLED", "KAFKA_BROKERS", "MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("addr got %q", cfg.Addr)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 5*time.Minute || cfg.Cache.RedisAddr != "" {
		t.Fatalf("cache got %+v", cfg.Cache)
	}
	if cfg.Events.Enabled || len(cfg.Events.Brokers) != 1 {
		t.Fatalf("events got %+v", cfg.Events)
	}
	if cfg.MaxBodyBytes != 4<<20 {
		t.Fatalf("max body got %d", cfg.MaxBodyBytes)
	}
	if cfg.ArcGISIDAttribute != "OBJECTID" {
		t.Fatalf("id attribute got %q", cfg.ArcGISIDAttribute)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("LOG_CONSOLE", "yes")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_OP_TIMEOUT", "not-a-duration")
	t.Setenv("KAFKA_BROKERS", " k1:9092 ,, k2:9092 ")
	t.Setenv("EVENTS_QUEUE", "x")

	cfg := FromEnv()
	if cfg.Addr != ":9000" || !cfg.LogConsole {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Cache.Enabled || cfg.Cache.Size != 16 || cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("cache got %+v", cfg.Cache)
	}
	if cfg.Cache.OpTimeout != 250*time.Millisecond {
		t.Fatalf("invalid duration should fall back, got %v", cfg.Cache.OpTimeout)
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers got %v", cfg.Events.Brokers)
	}
	if cfg.Events.Queue != 1024 {
		t.Fatalf("invalid int should fall back, got %d", cfg.Events.Queue)
	}
}
