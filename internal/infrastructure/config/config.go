package config

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Protocol  ProtocolConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// ServerConfig holds the file service listener configuration.
type ServerConfig struct {
	Host string `envconfig:"NFS_HOST" default:"0.0.0.0"`
	Port string `envconfig:"NFS_PORT" default:"7890"`
	// ConnTimeout bounds the lifetime of one connection. Zero disables it,
	// in which case a stalled client blocks the server.
	ConnTimeout time.Duration `envconfig:"NFS_CONN_TIMEOUT" default:"0s"`
}

// Addr returns the host:port the server binds.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// StorageConfig describes the exported directory tree.
type StorageConfig struct {
	Root    string `envconfig:"NFS_ROOT" default:"."`
	Contain bool   `envconfig:"NFS_CONTAIN" default:"true"`
}

// ProtocolConfig holds wire protocol policy switches.
type ProtocolConfig struct {
	// EmbedErrors puts the OS error description into failed List responses.
	EmbedErrors bool `envconfig:"NFS_EMBED_ERRORS" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds connection rate limiting configuration.
type RateLimitConfig struct {
	ConnectionsPerSecond int  `envconfig:"RATE_LIMIT_CPS" default:"50"`
	Burst                int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled              bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// AdminConfig holds the health/metrics HTTP endpoint configuration.
type AdminConfig struct {
	Addr    string `envconfig:"ADMIN_ADDR" default:"127.0.0.1:9790"`
	Enabled bool   `envconfig:"ADMIN_ENABLED" default:"false"`
	// CORSOrigins lists the browser origins allowed to poll the endpoint.
	CORSOrigins       []string `envconfig:"ADMIN_CORS_ORIGINS" default:"*"`
	RequestsPerSecond int      `envconfig:"ADMIN_RATE_RPS" default:"10"`
	Burst             int      `envconfig:"ADMIN_RATE_BURST" default:"20"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "7890",
		},
		Storage: StorageConfig{
			Root:    ".",
			Contain: true,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			ConnectionsPerSecond: 50,
			Burst:                100,
		},
		Admin: AdminConfig{
			Addr:              "127.0.0.1:9790",
			CORSOrigins:       []string{"*"},
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}
