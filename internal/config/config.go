// ShelterAI - Refugee Shelter Matching and Recommendation
// Copyright 2026 Etxarri
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Etxarri/ShelterAI

package config

import (
	"fmt"
	"time"

	"github.com/Etxarri/ShelterAI/internal/recommend"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Database DatabaseConfig   `koanf:"database"`
	Model    ModelConfig      `koanf:"model"`
	API      APIConfig        `koanf:"api"`
	Logging  LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

// DatabaseConfig holds the Postgres shelter-store connection settings.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode)
}

// ModelConfig holds the model artifact location and engine tuning.
type ModelConfig struct {
	// Path is the model artifact JSON file. Startup fails if it cannot
	// be loaded and validated.
	Path string `koanf:"path"`

	Engine recommend.Config `koanf:"engine"`
}

// APIConfig holds cross-cutting HTTP API settings.
type APIConfig struct {
	// RateLimitRequests per RateLimitWindow per client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, overridden by the config
// file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "shelterai",
			User:            "shelterai",
			Password:        "",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Model: ModelConfig{
			Path:   "/data/model_artifacts.json",
			Engine: recommend.DefaultConfig(),
		},
		API: APIConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path must not be empty")
	}
	if err := c.Model.Engine.Validate(); err != nil {
		return fmt.Errorf("model.engine: %w", err)
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database.host and database.name must not be empty")
	}
	if c.API.RateLimitRequests < 1 {
		return fmt.Errorf("api.rate_limit_requests must be at least 1")
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive")
	}
	return nil
}
