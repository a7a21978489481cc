package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/variant-context-server/internal/domain"
)

// Manager loads and validates the application configuration using Viper
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

// loadConfig loads configuration from file, environment, and defaults
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/variant-context-server/")

	viper.SetEnvPrefix("VCTX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars suffice
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	viper.SetDefault("assembly", "GRCh38")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "variant_context")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("database.min_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "1m")
	viper.SetDefault("database.migrations_path", "migrations")

	// Annotation source defaults
	viper.SetDefault("annotation.base_url", "https://rest.ensembl.org")
	viper.SetDefault("annotation.species", "human")
	viper.SetDefault("annotation.timeout", "30s")
	viper.SetDefault("annotation.rate_limit", 15) // Ensembl allows 15 requests per second

	// Pathway resolution defaults
	viper.SetDefault("pathways.strategy", domain.PathwayStrategyMap)
	viper.SetDefault("pathways.map_file", "data/gene_pathways.tsv")
	viper.SetDefault("pathways.base_url", "https://reactome.org/ContentService")
	viper.SetDefault("pathways.timeout", "15s")
	viper.SetDefault("pathways.rate_limit", 10)
	viper.SetDefault("pathways.cache_size", 1024)

	// Score sourcing defaults
	viper.SetDefault("scores.source", domain.ScoreSourceEmbedded)
	viper.SetDefault("scores.table", "alphamissense")
	viper.SetDefault("scores.sqlite_path", "data/alphamissense.db")
	viper.SetDefault("scores.lookup_timeout", "2s")

	// Cache defaults
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.default_ttl", "24h")
	viper.SetDefault("cache.max_retries", 3)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns the score-store connection configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetServerConfig returns the HTTP server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Annotation.BaseURL == "" {
		return fmt.Errorf("annotation base URL is required")
	}

	switch config.Pathways.Strategy {
	case domain.PathwayStrategyMap:
		if config.Pathways.MapFile == "" {
			return fmt.Errorf("pathway map file is required for the map strategy")
		}
	case domain.PathwayStrategyExternal:
		if config.Pathways.BaseURL == "" {
			return fmt.Errorf("pathway base URL is required for the external strategy")
		}
	default:
		return fmt.Errorf("invalid pathway strategy: %s", config.Pathways.Strategy)
	}

	switch config.Scores.Source {
	case domain.ScoreSourceEmbedded, domain.ScoreSourceDisabled:
	case domain.ScoreSourcePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres score source")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required for the postgres score source")
		}
		if config.Scores.Table == "" {
			return fmt.Errorf("score table name is required")
		}
	case domain.ScoreSourceSQLite:
		if config.Scores.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite score source")
		}
	default:
		return fmt.Errorf("invalid score source: %s", config.Scores.Source)
	}

	if config.Cache.Enabled && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when the cache is enabled")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// GetDatabaseConnectionString returns a formatted database connection string
func (m *Manager) GetDatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// GetDatabaseURL returns the database URL used by the migration runner
func (m *Manager) GetDatabaseURL() string {
	db := m.config.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.Username, db.Password, db.Host, db.Port, db.Database, db.SSLMode)
}
