// Package config provides centralized configuration management for the cube tools.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Store kinds accepted by SHEET_STORE.
const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Database DatabaseConfig
	Scryfall ScryfallConfig
	Run      RunConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout must cover a full update run (default: 0, disabled)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// AllowedOrigins is a comma-separated CORS origin list (default: none)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	// TrustedProxies lists proxy CIDRs whose X-Real-IP / X-Forwarded-For
	// headers are believed (default: none)
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// SecurityConfig guards the HTTP endpoints that rewrite the Card List.
type SecurityConfig struct {
	// RequireAPIKey enables X-API-Key checks on run endpoints (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// SheetsConfig names the three tables the pipeline works on and where they live.
type SheetsConfig struct {
	// Store selects the table backend: csv or postgres (default: csv)
	Store string `env:"SHEET_STORE" default:"csv"`

	// Dir is the directory holding <sheet>.csv files for the csv store (default: sheets)
	Dir string `env:"SHEET_DIR" default:"sheets"`

	ChangeLog  string `env:"SHEET_CHANGE_LOG" default:"Change Log"`
	ColumnList string `env:"SHEET_COLUMN_LIST" default:"Column List"`
	CardList   string `env:"SHEET_CARD_LIST" default:"Card List"`

	// NameColumn is the zero-based Change Log column holding card names (default: 3, D)
	NameColumn int `env:"CHANGE_LOG_NAME_COLUMN" default:"3"`

	// CountColumn is the zero-based Change Log column holding the 0/1 count (default: 6, G)
	CountColumn int `env:"CHANGE_LOG_COUNT_COLUMN" default:"6"`
}

// DatabaseConfig holds database connection settings.
// Only used when Sheets.Store is postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ScryfallConfig holds card metadata API settings.
type ScryfallConfig struct {
	BaseURL string `env:"SCRYFALL_BASE_URL" default:"https://api.scryfall.com"`

	// Timeout bounds a single card lookup (default: 30s)
	Timeout time.Duration `env:"SCRYFALL_TIMEOUT" default:"30s"`

	UserAgent string `env:"SCRYFALL_USER_AGENT" default:"PauperCube/1.0"`
}

// RunConfig holds pipeline run settings.
type RunConfig struct {
	// Timeout is the maximum duration of one update or sort run (default: 10m)
	Timeout time.Duration `env:"RUN_TIMEOUT" default:"10m"`

	// MaxWait is how long a run waits for another run to finish (default: 30s)
	MaxWait time.Duration `env:"RUN_MAX_WAIT" default:"30s"`

	// HistoryLimit is how many run records the in-memory history keeps (default: 50)
	HistoryLimit int `env:"RUN_HISTORY_LIMIT" default:"50"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
