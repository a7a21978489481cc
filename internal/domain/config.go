package domain

import (
	"time"
)

// Score sourcing strategies. Exactly one is active per deployment.
const (
	ScoreSourceEmbedded = "embedded"
	ScoreSourcePostgres = "postgres"
	ScoreSourceSQLite   = "sqlite"
	ScoreSourceDisabled = "disabled"
)

// Pathway resolution strategies.
const (
	PathwayStrategyMap      = "map"
	PathwayStrategyExternal = "external"
)

// Config represents the main application configuration
type Config struct {
	Assembly   string           `mapstructure:"assembly"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Annotation AnnotationConfig `mapstructure:"annotation"`
	Pathways   PathwaysConfig   `mapstructure:"pathways"`
	Scores     ScoresConfig     `mapstructure:"scores"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig represents the score-store connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// AnnotationConfig represents the external annotation source configuration
type AnnotationConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Species   string        `mapstructure:"species"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"` // requests per second
}

// PathwaysConfig represents gene-to-pathway resolution configuration
type PathwaysConfig struct {
	Strategy  string        `mapstructure:"strategy"` // map | external
	MapFile   string        `mapstructure:"map_file"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"`
	CacheSize int           `mapstructure:"cache_size"`
}

// ScoresConfig represents pathogenicity-score sourcing configuration
type ScoresConfig struct {
	Source        string        `mapstructure:"source"` // embedded | postgres | sqlite | disabled
	Table         string        `mapstructure:"table"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

// CacheConfig represents the annotation response cache configuration
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text
	Output string `mapstructure:"output"`
}
