package config

import (
	"errors"
	"fmt"
)

// minSecretLength is the shortest accepted HMAC signing secret.
const minSecretLength = 32

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Cache.validate(),
		c.Auth.validate(),
		c.Telemetry.validate(),
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

func (st *StoreConfig) validate() error {
	var errs []error

	switch st.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		// Checked below.
	default:
		return fmt.Errorf("store.driver must be one of: memory, postgres; got %q", st.Driver)
	}

	if st.DSN == "" {
		errs = append(errs, errors.New("store.dsn must not be empty when driver is postgres"))
	}
	if st.MaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("store.max_open_conns must be >= 1, got %d", st.MaxOpenConns))
	}
	if st.MaxIdleConns < 0 || st.MaxIdleConns > st.MaxOpenConns {
		errs = append(errs, fmt.Errorf("store.max_idle_conns must be between 0 and max_open_conns, got %d",
			st.MaxIdleConns))
	}
	if st.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("store.retry.max_attempts must be >= 1, got %d", st.Retry.MaxAttempts))
	}
	if st.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("store.retry.multiplier must be positive, got %f", st.Retry.Multiplier))
	}
	if st.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("store.circuit_breaker.max_failures must be >= 1, got %d",
			st.CircuitBreaker.MaxFailures))
	}
	if st.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("store.rate_limit.requests_per_second must not be negative, got %f",
			st.RateLimit.RequestsPerSecond))
	}
	if st.RateLimit.RequestsPerSecond > 0 && st.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("store.rate_limit.burst_size must be >= 1 when rate limiting, got %d",
			st.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (c *CacheConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("cache.addr must not be empty when cache is enabled"))
	}
	if c.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	return errors.Join(errs...)
}

func (a *AuthConfig) validate() error {
	if len(a.Secret) < minSecretLength {
		return fmt.Errorf("auth.secret must be at least %d bytes, got %d", minSecretLength, len(a.Secret))
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
