package domain

import (
	"time"
)

// Config represents the main application configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Audit          AuditConfig          `mapstructure:"audit"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Interpretation InterpretationConfig `mapstructure:"interpretation"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	RateLimitPerSec float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig represents the optional PostgreSQL connection used for
// interpretation history. The engine itself never touches storage.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
	MaxConnLife    time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdle    time.Duration `mapstructure:"max_conn_idle"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

// CacheConfig represents the deterministic response cache. The memory tier
// is always available when enabled; the Redis tier is used only when a URL
// is configured.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MemorySize  int           `mapstructure:"memory_size"`
	TTL         time.Duration `mapstructure:"ttl"`
	RedisURL    string        `mapstructure:"redis_url"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// AuditConfig selects where safety-relevant events (critical results,
// pediatric rejections) are recorded. Backend is "sqlite", "postgres", or
// empty to disable.
type AuditConfig struct {
	Backend     string `mapstructure:"backend"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InterpretationConfig carries engine-level knobs.
type InterpretationConfig struct {
	// MinSupportedAge is the adult threshold; requests for younger patients
	// are rejected wholesale.
	MinSupportedAge int `mapstructure:"min_supported_age"`
}

// TestRegistry is the read-only query surface of the test-definition
// registry. It is constructed once at startup and injected into the engine,
// so tests can substitute synthetic registries without process-wide state.
type TestRegistry interface {
	// Lookup returns the definition for a test code.
	Lookup(code string) (*TestDefinition, bool)

	// Has reports whether the test code is registered.
	Has(code string) bool

	// List returns the metadata of every registered test, sorted by code.
	List() []TestInfo

	// Conversion returns the registered conversion for (testCode, fromUnit).
	Conversion(testCode, fromUnit string) (UnitConversion, bool)

	// SupportedUnits returns the registered alternate units for a test,
	// sorted; empty when the test supports no conversions.
	SupportedUnits(testCode string) []string
}
