// Package config provides hierarchical configuration loading for AgentDesk.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the AgentDesk API service.
type Config struct {
	Server   Server   `yaml:"server"`
	Auth     Auth     `yaml:"auth"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	NATS     NATS     `yaml:"nats"`
	Cache    Cache    `yaml:"cache"`
	OTel     OTel     `yaml:"otel"`
	Logging  Logging  `yaml:"logging"`
	Breaker  Breaker  `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Auth holds identity provider configuration. URL and AnonKey are
// required; the service refuses to start without them.
type Auth struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// Storage selects the store backend: "memory" or "postgres".
type Storage struct {
	Driver string `yaml:"driver"`
}

// Postgres holds PostgreSQL connection configuration. Only used when
// the storage driver is "postgres".
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// NATS holds NATS JetStream configuration. An empty URL disables
// event publishing.
type NATS struct {
	URL string `yaml:"url"`
}

// Cache holds session cache configuration.
type Cache struct {
	SessionTTL time.Duration `yaml:"session_ttl"`
	MaxEntries int64         `yaml:"max_entries"`
}

// OTel holds OpenTelemetry export configuration. An empty endpoint
// disables export.
type OTel struct {
	Endpoint string `yaml:"endpoint"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker configuration for identity provider calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "3000",
			CORSOrigin: "*",
		},
		Storage: Storage{
			Driver: "memory",
		},
		Postgres: Postgres{
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 10 * time.Minute,
		},
		Cache: Cache{
			SessionTTL: time.Minute,
			MaxEntries: 10_000,
		},
		Logging: Logging{
			Level:   "info",
			Service: "agentdesk-api",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}
