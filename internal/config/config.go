// Package config loads and validates application configuration from file,
// environment, and defaults via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lab-interpretation-server/internal/domain"
)

// Manager loads and holds the application configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/lab-interpretation-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("LAB_INTERPRETER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.request_timeout", "15s")
	viper.SetDefault("server.rate_limit_per_sec", 50)
	viper.SetDefault("server.rate_limit_burst", 100)

	// Database defaults (history persistence is opt-in)
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "lab_interpretation")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("database.min_conns", 5)
	viper.SetDefault("database.max_conn_lifetime", "5m")
	viper.SetDefault("database.max_conn_idle", "1m")
	viper.SetDefault("database.migrations_path", "migrations")

	// Cache defaults (memory tier only unless a Redis URL is configured)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.memory_size", 1024)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")
	viper.SetDefault("cache.max_retries", 3)

	// Audit defaults
	viper.SetDefault("audit.backend", "sqlite")
	viper.SetDefault("audit.sqlite_path", "data/audit.db")
	viper.SetDefault("audit.postgres_url", "")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Interpretation defaults
	viper.SetDefault("interpretation.min_supported_age", 18)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetCacheConfig returns cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// GetAuditConfig returns audit configuration
func (m *Manager) GetAuditConfig() *domain.AuditConfig {
	return &m.config.Audit
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Database settings are only checked when history persistence is on
	if config.Database.Enabled {
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Username == "" {
			return fmt.Errorf("database username is required")
		}
	}

	if config.Cache.Enabled && config.Cache.MemorySize <= 0 {
		return fmt.Errorf("cache memory size must be positive: %d", config.Cache.MemorySize)
	}

	switch config.Audit.Backend {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid audit backend: %s", config.Audit.Backend)
	}
	if config.Audit.Backend == "sqlite" && config.Audit.SQLitePath == "" {
		return fmt.Errorf("audit sqlite path is required")
	}
	if config.Audit.Backend == "postgres" && config.Audit.PostgresURL == "" {
		return fmt.Errorf("audit postgres URL is required")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Interpretation.MinSupportedAge < domain.MinSupportedAge {
		return fmt.Errorf("minimum supported age cannot be below %d", domain.MinSupportedAge)
	}

	return nil
}
