package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Endpoint == "" {
		t.Fatal("endpoint default missing")
	}
	if cfg.ReadTimeout != 10*time.Minute {
		t.Fatalf("read timeout default: %v", cfg.ReadTimeout)
	}
	if cfg.DescribeCacheSize <= 0 {
		t.Fatalf("cache size default: %d", cfg.DescribeCacheSize)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WCPS_ENDPOINT", "https://ows.rasdaman.org/rasdaman/ows")
	t.Setenv("WCPS_USERNAME", "jane")
	t.Setenv("WCPS_PASSWORD", "secret")
	t.Setenv("CONN_TIMEOUT", "3s")
	t.Setenv("LOG_CONSOLE", "yes")
	t.Setenv("DESCRIBE_CACHE_SIZE", "42")

	cfg := FromEnv()
	if cfg.Endpoint != "https://ows.rasdaman.org/rasdaman/ows" {
		t.Fatalf("endpoint: %s", cfg.Endpoint)
	}
	if cfg.Username != "jane" || cfg.Password != "secret" {
		t.Fatal("credentials not picked up")
	}
	if cfg.ConnTimeout != 3*time.Second {
		t.Fatalf("conn timeout: %v", cfg.ConnTimeout)
	}
	if !cfg.LogConsole {
		t.Fatal("LOG_CONSOLE=yes not parsed")
	}
	if cfg.DescribeCacheSize != 42 {
		t.Fatalf("cache size: %d", cfg.DescribeCacheSize)
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONN_TIMEOUT", "soon")
	t.Setenv("DESCRIBE_CACHE_SIZE", "-5")

	cfg := FromEnv()
	if cfg.ConnTimeout != 10*time.Second {
		t.Fatalf("bad duration should fall back, got %v", cfg.ConnTimeout)
	}
	if cfg.DescribeCacheSize != 256 {
		t.Fatalf("non-positive size should fall back, got %d", cfg.DescribeCacheSize)
	}
}
