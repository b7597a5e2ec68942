package config

import (
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string
	RedisURL      string
	NatsURL       string
	KafkaBrokers  string
	Port          string
	VerifySecret  string
	NotifyTimeout time.Duration
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	secret := os.Getenv("VERIFY_SECRET")
	if secret == "" {
		secret = "refund-engine-dev-secret"
	}

	notifyTimeout := 5 * time.Second
	if raw := os.Getenv("NOTIFY_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			notifyTimeout = d
		}
	}

	return &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		NatsURL:       os.Getenv("NATS_URL"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		Port:          port,
		VerifySecret:  secret,
		NotifyTimeout: notifyTimeout,
	}
}
