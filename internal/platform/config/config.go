// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Journal drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Publish backends.
const (
	BackendRedis   = "redis"
	BackendKafka   = "kafka"
	BackendWebhook = "webhook"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Journal   JournalConfig   `koanf:"journal"`
	Engine    EngineConfig    `koanf:"engine"`
	Publish   PublishConfig   `koanf:"publish"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	// MaxBodyBytes caps the size of a declaration document.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JournalConfig selects and tunes the event log.
type JournalConfig struct {
	Driver         string               `koanf:"driver"`
	DSN            string               `koanf:"dsn"`
	MaxOpenConns   int                  `koanf:"max_open_conns"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// EngineConfig tunes command handling and declaration fan-out.
type EngineConfig struct {
	ExpectedVersion string        `koanf:"expected_version"`
	MailboxSize     int           `koanf:"mailbox_size"`
	ConflictRetries int           `koanf:"conflict_retries"`
	Retry           BackoffConfig `koanf:"retry"`
	CommandTimeout  time.Duration `koanf:"command_timeout"`
	DispatchMode    string        `koanf:"dispatch_mode"`
	DispatchWorkers int           `koanf:"dispatch_workers"`
	UnknownKinds    string        `koanf:"unknown_kinds"`
}

// BackoffConfig holds an exponential backoff schedule.
type BackoffConfig struct {
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// PublishConfig lists the backends appended events are forwarded to.
type PublishConfig struct {
	Backends []string      `koanf:"backends"`
	Redis    RedisConfig   `koanf:"redis"`
	Kafka    KafkaConfig   `koanf:"kafka"`
	Webhook  WebhookConfig `koanf:"webhook"`
}

// RedisConfig holds the Redis stream publisher settings.
type RedisConfig struct {
	URL    string `koanf:"url"`
	Stream string `koanf:"stream"`
	MaxLen int64  `koanf:"max_len"`
}

// KafkaConfig holds the Kafka publisher settings.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// WebhookConfig holds the outbound HTTP publisher settings.
type WebhookConfig struct {
	URL    string       `koanf:"url"`
	Client ClientConfig `koanf:",squash"`
}

// ClientConfig holds outbound HTTP client settings.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds token bucket settings. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
