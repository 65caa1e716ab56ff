// Package config loads client and tool configuration from the
// environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Endpoint is the WCPS service URL, e.g.
	// https://ows.rasdaman.org/rasdaman/ows.
	Endpoint string
	Username string
	Password string

	LogLevel   string
	LogConsole bool

	ConnTimeout time.Duration
	ReadTimeout time.Duration

	// DescribeCache* configure the coverage metadata cache used by
	// discovery. An empty RedisAddr selects the in-process LRU backend.
	RedisAddr         string
	DescribeCacheTTL  time.Duration
	DescribeCacheSize int

	// MetricsAddr exposes /metrics when non-empty, e.g. ":9090".
	MetricsAddr string
}

func FromEnv() Config {
	size := getint("DESCRIBE_CACHE_SIZE", 256)
	if size <= 0 {
		size = 256
	}

	return Config{
		Endpoint:          getenv("WCPS_ENDPOINT", "http://localhost:8080/rasdaman/ows"),
		Username:          getenv("WCPS_USERNAME", ""),
		Password:          getenv("WCPS_PASSWORD", ""),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogConsole:        getbool("LOG_CONSOLE", false),
		ConnTimeout:       getduration("CONN_TIMEOUT", 10*time.Second),
		ReadTimeout:       getduration("READ_TIMEOUT", 10*time.Minute),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		DescribeCacheTTL:  getduration("DESCRIBE_CACHE_TTL", 10*time.Minute),
		DescribeCacheSize: size,
		MetricsAddr:       getenv("METRICS_ADDR", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
