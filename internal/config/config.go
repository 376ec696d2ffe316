// Package config provides layered configuration management (viper + env +
// .env) for the llms.txt generator service, following the teacher's
// cmd/root.go config-binding conventions.
package config

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/gocrawl/internal/config/crawler"
	dbconfig "github.com/jonesrussell/gocrawl/internal/config/database"
	"github.com/jonesrussell/gocrawl/internal/config/llm"
	"github.com/jonesrussell/gocrawl/internal/config/server"
	workerconfig "github.com/jonesrussell/gocrawl/internal/config/worker"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Interface defines the interface for configuration management.
type Interface interface {
	GetServerConfig() *server.Config
	GetCrawlerConfig() *crawler.Config
	GetDatabaseConfig() *dbconfig.Config
	GetLLMConfig() *llm.Config
	GetWorkerConfig() *workerconfig.Config
	Validate(command string) error
}

// Ensure Config implements Interface.
var _ Interface = (*Config)(nil)

// Config represents the application configuration, aggregating the
// sub-configs recognized by spec §6.
type Config struct {
	Server   *server.Config       `yaml:"server"`
	Crawler  *crawler.Config      `yaml:"crawler"`
	Database *dbconfig.Config     `yaml:"database"`
	LLM      *llm.Config          `yaml:"llm"`
	Worker   *workerconfig.Config `yaml:"worker"`
}

func (c *Config) GetServerConfig() *server.Config       { return c.Server }
func (c *Config) GetCrawlerConfig() *crawler.Config      { return c.Crawler }
func (c *Config) GetDatabaseConfig() *dbconfig.Config    { return c.Database }
func (c *Config) GetLLMConfig() *llm.Config              { return c.LLM }
func (c *Config) GetWorkerConfig() *workerconfig.Config  { return c.Worker }

// Commands that require a configured database connection. "migrate" also
// requires it but is handled identically.
const (
	CommandHTTPD   = "httpd"
	CommandWorker  = "worker"
	CommandMigrate = "migrate"
	CommandInspect = "inspect"
)

// Validate validates the configuration for the given command. A failure is
// returned as an ordinary error, so the process exits with status 1 (main.go)
// as for any other command error; no separate exit code is used for it.
func (c *Config) Validate(command string) error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	switch command {
	case CommandHTTPD:
		if err := c.Server.Validate(); err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case CommandWorker:
		if err := c.Crawler.Validate(); err != nil {
			return fmt.Errorf("crawler: %w", err)
		}
	}
	return nil
}

// Load reads `.env` (if present), binds environment variables via viper
// with the same dotted->underscore replacer the teacher's cmd/root.go
// uses, and assembles a Config. path, if non-empty, is an optional YAML
// config file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Server:   server.NewConfig(),
		Crawler:  crawler.New(),
		Database: dbconfig.LoadFromViper(v),
		LLM:      llm.New(),
		Worker:   workerconfig.New(),
	}
	return cfg, nil
}
