package config

const (
	defaultServerPort   = 8080
	defaultMaxBodyBytes = 1 << 20

	defaultMailboxSize     = 64
	defaultConflictRetries = 3
	defaultDispatchWorkers = 8
	defaultBackoffFactor   = 2.0

	defaultRetryMaxAttempts = 3

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultRateLimitBurst = 10
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":           "0.0.0.0",
		"server.port":           defaultServerPort,
		"server.read_timeout":   "5s",
		"server.write_timeout":  "10s",
		"server.idle_timeout":   "120s",
		"server.max_body_bytes": defaultMaxBodyBytes,

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "resource-reconciler",

		"journal.driver":                          DriverMemory,
		"journal.dsn":                             "",
		"journal.max_open_conns":                  0,
		"journal.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"journal.circuit_breaker.timeout":         "30s",
		"journal.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"engine.expected_version":       "0.0.1",
		"engine.mailbox_size":           defaultMailboxSize,
		"engine.conflict_retries":       defaultConflictRetries,
		"engine.retry.initial_interval": "10ms",
		"engine.retry.max_interval":     "1s",
		"engine.retry.multiplier":       defaultBackoffFactor,
		"engine.command_timeout":        "30s",
		"engine.dispatch_mode":          "async",
		"engine.dispatch_workers":       defaultDispatchWorkers,
		"engine.unknown_kinds":          "track",

		"publish.backends":                                []string{},
		"publish.redis.url":                               "",
		"publish.redis.stream":                            "reconciler.events",
		"publish.redis.max_len":                           0,
		"publish.kafka.brokers":                           []string{},
		"publish.kafka.topic":                             "reconciler.events",
		"publish.webhook.url":                             "",
		"publish.webhook.timeout":                         "10s",
		"publish.webhook.retry.max_attempts":              defaultRetryMaxAttempts,
		"publish.webhook.retry.initial_interval":          "100ms",
		"publish.webhook.retry.max_interval":              "5s",
		"publish.webhook.retry.multiplier":                defaultBackoffFactor,
		"publish.webhook.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"publish.webhook.circuit_breaker.timeout":         "30s",
		"publish.webhook.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"publish.webhook.rate_limit.requests_per_second":  0,
		"publish.webhook.rate_limit.burst_size":           defaultRateLimitBurst,
	}
}
