package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the runtime configuration of the API process, read from
// the environment (a .env file is loaded by cmd/api before this).
type Config struct {
	DatabaseURL string
	JWTSecret   string
	ListenAddr  string

	// LeadTTL is the countdown window a helper gets per lead.
	LeadTTL time.Duration

	// PendingTTL is how long a booking may sit in pending before the
	// sweeper cancels it. Zero disables the sweeper.
	PendingTTL time.Duration

	// RabbitURL enables the AMQP event mirror when non-empty.
	RabbitURL      string
	RabbitExchange string
}

func Load() Config {
	cfg := Config{
		DatabaseURL:    getenv("DATABASE_URL", "homeserve.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		LeadTTL:        getDuration("LEAD_TTL_SECONDS", 30*time.Second),
		PendingTTL:     getDuration("PENDING_TTL_SECONDS", 15*time.Minute),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "homeserve.bookings"),
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
