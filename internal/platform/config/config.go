package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the process reads from its environment so main
// stays lean.
type Config struct {
	Addr          string
	JWTSigningKey string

	Hub      HubConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	// ExcludedDomains overrides the built-in list of structural entity
	// domains that are never offered for regrouping. Empty means default.
	ExcludedDomains []string
}

// HubConfig points at the hub websocket API and carries the long-lived access
// token used to authenticate the session.
type HubConfig struct {
	URL         string
	AccessToken string
	CallTimeout time.Duration
}

// RedisConfig configures the optional Redis connection used for persisted
// panel selections. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional mutation audit trail database. An
// empty DSN keeps the trail in memory.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig configures the optional mirror of audit records to a Kafka
// topic. No brokers disables the publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables, applying development
// defaults where a value is optional.
func FromEnv() Config {
	addr := os.Getenv("GROUPDECK_ADDR")
	if addr == "" {
		addr = ":8090"
	}

	hubURL := os.Getenv("GROUPDECK_HUB_URL")
	if hubURL == "" {
		hubURL = "ws://localhost:8123/api/websocket"
	}

	jwtSigningKey := os.Getenv("GROUPDECK_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	kafkaTopic := os.Getenv("GROUPDECK_KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "groupdeck.mutations"
	}

	return Config{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Hub: HubConfig{
			URL:         hubURL,
			AccessToken: os.Getenv("GROUPDECK_HUB_TOKEN"),
			CallTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("GROUPDECK_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("GROUPDECK_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("GROUPDECK_KAFKA_BROKERS")),
			Topic:   kafkaTopic,
		},
		ExcludedDomains: splitList(os.Getenv("GROUPDECK_EXCLUDED_DOMAINS")),
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
