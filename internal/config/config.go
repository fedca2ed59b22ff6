// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all server configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Analysis AnalysisConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, body included (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`
}

// AnalysisConfig holds analysis engine settings.
type AnalysisConfig struct {
	// MaxConcurrent is the maximum number of parallel analyses (default: 4)
	MaxConcurrent int `env:"ANALYSIS_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an analysis slot (default: 30s)
	MaxWaitTime time.Duration `env:"ANALYSIS_MAX_WAIT_TIME" default:"30s"`

	// PreviewRows is how many filtered rows a range result previews (default: 5)
	PreviewRows int `env:"ANALYSIS_PREVIEW_ROWS" default:"5"`

	// CacheSize is how many parsed uploads to keep in memory; 0 disables (default: 16)
	CacheSize int `env:"DATASET_CACHE_SIZE" default:"16"`

	// ExportTTL is how long a range result stays downloadable (default: 10m)
	ExportTTL time.Duration `env:"EXPORT_TTL" default:"10m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// AnalyzeLimit is requests per minute for analysis and export endpoints (default: 20)
	AnalyzeLimit int `env:"RATE_LIMIT_ANALYZE" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	// Driver selects the store: none, postgres or sqlite (default: none)
	Driver string `env:"AUDIT_DRIVER" default:"none"`

	// URL is the Postgres connection string or SQLite file path.
	// Falls back to DATABASE_URL.
	URL string `env:"AUDIT_DATABASE_URL" envAlt:"DATABASE_URL"`

	// RetentionDays is how long entries are kept (default: 90)
	RetentionDays int `env:"AUDIT_RETENTION_DAYS" default:"90"`

	// CheckInterval is how often old entries are purged (default: 24h)
	CheckInterval time.Duration `env:"AUDIT_CHECK_INTERVAL" default:"24h"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
