// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and MUSTER_* env vars over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
	"time"
)

// Roster sources.
const (
	SourceMock   = "mock"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterSource selects where the roster comes from: mock, file, sqlite or http.
	RosterSource string `koanf:"roster_source"`

	// RosterFile is the JSON or YAML roster read by the file source.
	RosterFile string `koanf:"roster_file"`

	// RosterDB is the SQLite database read by the sqlite source.
	RosterDB string `koanf:"roster_db"`

	// RosterURL is the endpoint polled by the http source.
	RosterURL string `koanf:"roster_url"`

	// MockRosterSize and MockSeed shape the generated roster.
	MockRosterSize int   `koanf:"mock_roster_size"`
	MockSeed       int64 `koanf:"mock_seed"`

	// RosterCacheTTLSec keeps a fetched roster for this many seconds; 0 disables the cache.
	RosterCacheTTLSec int `koanf:"roster_cache_ttl_sec"`

	// RosterFetchTimeoutMS and RosterFetchRetries bound remote roster fetches.
	RosterFetchTimeoutMS int `koanf:"roster_fetch_timeout_ms"`
	RosterFetchRetries   int `koanf:"roster_fetch_retries"`

	// JobQueueSize bounds the in-memory simulation job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// JobWorkerCount sets the number of simulation workers.
	JobWorkerCount int `koanf:"job_worker_count"`

	// MedicalOverdueMonths is the checkup interval used by the dashboards.
	MedicalOverdueMonths int `koanf:"medical_overdue_months"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		RosterSource:         SourceMock,
		RosterDB:             "data/muster.db",
		MockRosterSize:       500,
		MockSeed:             42,
		RosterCacheTTLSec:    30,
		RosterFetchTimeoutMS: 5000,
		RosterFetchRetries:   2,
		JobQueueSize:         1000,
		JobWorkerCount:       runtime.NumCPU(),
		MedicalOverdueMonths: 6,
		MaxLeaderboardLimit:  100,
	}
}

// RosterCacheTTL returns the cache TTL as a duration.
func (c *Config) RosterCacheTTL() time.Duration {
	return time.Duration(c.RosterCacheTTLSec) * time.Second
}

// RosterFetchTimeout returns the per-attempt fetch timeout as a duration.
func (c *Config) RosterFetchTimeout() time.Duration {
	return time.Duration(c.RosterFetchTimeoutMS) * time.Millisecond
}
