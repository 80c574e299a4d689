package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Journal.validate(),
		c.Engine.validate(),
		c.Publish.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (j *JournalConfig) validate() error {
	var errs []error

	switch j.Driver {
	case DriverMemory:
		// No connection settings.
	case DriverSQLite, DriverPostgres:
		if j.DSN == "" {
			errs = append(errs, fmt.Errorf("journal.dsn must not be empty when driver is %s", j.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("journal.driver must be one of: memory, sqlite, postgres; got %q", j.Driver))
	}
	if j.MaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("journal.max_open_conns must be >= 0, got %d", j.MaxOpenConns))
	}
	errs = append(errs, j.CircuitBreaker.validate("journal.circuit_breaker"))

	return errors.Join(errs...)
}

func (e *EngineConfig) validate() error {
	var errs []error

	if e.ExpectedVersion == "" {
		errs = append(errs, errors.New("engine.expected_version must not be empty"))
	}
	if e.MailboxSize < 1 {
		errs = append(errs, fmt.Errorf("engine.mailbox_size must be >= 1, got %d", e.MailboxSize))
	}
	if e.ConflictRetries < 0 {
		errs = append(errs, fmt.Errorf("engine.conflict_retries must be >= 0, got %d", e.ConflictRetries))
	}
	if e.Retry.InitialInterval <= 0 || e.Retry.MaxInterval < e.Retry.InitialInterval {
		errs = append(errs, errors.New("engine.retry intervals must be positive with max_interval >= initial_interval"))
	}
	if e.Retry.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("engine.retry.multiplier must be >= 1, got %f", e.Retry.Multiplier))
	}
	if e.CommandTimeout <= 0 {
		errs = append(errs, errors.New("engine.command_timeout must be positive"))
	}
	switch e.DispatchMode {
	case "async", "await":
		// Valid modes.
	default:
		errs = append(errs, fmt.Errorf("engine.dispatch_mode must be one of: async, await; got %q", e.DispatchMode))
	}
	if e.DispatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("engine.dispatch_workers must be >= 1, got %d", e.DispatchWorkers))
	}
	switch e.UnknownKinds {
	case "track", "ignore":
		// Valid policies.
	default:
		errs = append(errs, fmt.Errorf("engine.unknown_kinds must be one of: track, ignore; got %q", e.UnknownKinds))
	}

	return errors.Join(errs...)
}

func (p *PublishConfig) validate() error {
	var errs []error

	for _, b := range p.Backends {
		switch b {
		case BackendRedis, BackendKafka, BackendWebhook:
			// Valid backends.
		default:
			errs = append(errs, fmt.Errorf("publish.backends must contain only redis, kafka, webhook; got %q", b))
		}
	}

	if p.Enabled(BackendRedis) && p.Redis.URL == "" {
		errs = append(errs, errors.New("publish.redis.url must not be empty when redis is enabled"))
	}
	if p.Enabled(BackendKafka) {
		if len(p.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("publish.kafka.brokers must not be empty when kafka is enabled"))
		}
		if p.Kafka.Topic == "" {
			errs = append(errs, errors.New("publish.kafka.topic must not be empty when kafka is enabled"))
		}
	}
	if p.Enabled(BackendWebhook) {
		errs = append(errs, p.Webhook.validate())
	}

	return errors.Join(errs...)
}

// Enabled reports whether backend is listed in publish.backends.
func (p *PublishConfig) Enabled(backend string) bool {
	return slices.Contains(p.Backends, backend)
}

func (w *WebhookConfig) validate() error {
	if w.URL == "" {
		return errors.New("publish.webhook.url must not be empty when webhook is enabled")
	}
	return w.Client.validate("publish.webhook")
}

func (cl *ClientConfig) validate(prefix string) error {
	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s.timeout must be positive", prefix))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s.retry.max_attempts must be >= 1, got %d", prefix, cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("%s.retry.multiplier must be positive, got %f", prefix, cl.Retry.Multiplier))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%s.rate_limit.requests_per_second must be >= 0", prefix))
	}
	errs = append(errs, cl.CircuitBreaker.validate(prefix+".circuit_breaker"))

	return errors.Join(errs...)
}

func (cb *CircuitBreakerConfig) validate(prefix string) error {
	if cb.MaxFailures < 1 {
		return fmt.Errorf("%s.max_failures must be >= 1, got %d", prefix, cb.MaxFailures)
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
