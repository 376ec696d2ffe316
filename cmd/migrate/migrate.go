// Package migrate implements the `service migrate` subcommand: applying
// pending schema migrations and exiting (spec §6 supplemental CLI surface).
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gocrawl/internal/config"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

var cfgFile string

// Command returns the `migrate` cobra subcommand.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Start()
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "path to an optional YAML config file")
	return cmd
}

// Start applies every pending migration under
// internal/database/migrations and returns.
func Start() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateErr := cfg.Validate(config.CommandMigrate); validateErr != nil {
		return fmt.Errorf("invalid config: %w", validateErr)
	}

	log, err := logger.New(&logger.Config{Level: logger.InfoLevel, Encoding: "console", Development: true})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	return database.RunMigrations(cfg.GetDatabaseConfig().URL, log)
}
