// Package server provides server configuration types and functions.
package server

import (
	"os"
	"time"
)

// Server defaults (spec §6 lists these only as ambient HTTP-surface
// concerns; auth is explicitly out of scope per spec §1).
const (
	DefaultAddress      = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// Config represents server-specific configuration settings.
type Config struct {
	Address      string        `yaml:"address" env:"SERVER_ADDRESS"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return nil
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = DefaultAddress
	}
	return &Config{
		Address:      addr,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
}
