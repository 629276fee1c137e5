package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	BackendBaseURL string
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8090"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080/admin"),
		PollInterval:   getSeconds("POLL_INTERVAL_SECONDS", 25),
		RequestTimeout: getSeconds("REQUEST_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
