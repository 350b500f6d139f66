package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/muster/pkg/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MUSTER_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MUSTER_CONFIG is set
//  3. env (prefix MUSTER_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like MUSTER_JOB_QUEUE_SIZE -> job_queue_size (flat keys).
	// Underscores are kept to match the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and that the chosen roster source is configured.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.JobQueueSize < 1:
		return invalid("job_queue_size must be positive")
	case c.JobWorkerCount < 1:
		return invalid("job_worker_count must be positive")
	case c.MaxLeaderboardLimit < 1:
		return invalid("max_leaderboard_limit must be positive")
	case c.MedicalOverdueMonths < 1:
		return invalid("medical_overdue_months must be positive")
	case c.RosterCacheTTLSec < 0:
		return invalid("roster_cache_ttl_sec must not be negative")
	case c.RosterFetchTimeoutMS < 1:
		return invalid("roster_fetch_timeout_ms must be positive")
	case c.RosterFetchRetries < 0:
		return invalid("roster_fetch_retries must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid(fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if f := strings.ToLower(c.LogFormat); f != logger.FormatText && f != logger.FormatJSON {
		return invalid("log_format must be text or json")
	}

	switch c.RosterSource {
	case SourceMock:
		if c.MockRosterSize < 1 {
			return invalid("mock_roster_size must be positive")
		}
	case SourceFile:
		if c.RosterFile == "" {
			return invalid("roster_file is required for the file source")
		}
	case SourceSQLite:
		if c.RosterDB == "" {
			return invalid("roster_db is required for the sqlite source")
		}
	case SourceHTTP:
		if c.RosterURL == "" {
			return invalid("roster_url is required for the http source")
		}
	default:
		return invalid(fmt.Sprintf("unknown roster_source %q", c.RosterSource))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
