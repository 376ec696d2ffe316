// Package httpd implements the `service httpd` subcommand: the HTTP API
// surface of the llms.txt generator (spec §6), grounded on the teacher's
// cmd/httpd dependency-construction sequence.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gocrawl/internal/api"
	"github.com/jonesrussell/gocrawl/internal/config"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

const errorChannelBufferSize = 1

var cfgFile string

// Command returns the `httpd` cobra subcommand.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "httpd",
		Short: "Run the HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Start()
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "path to an optional YAML config file")
	return cmd
}

// Start loads configuration, connects to Postgres, wires the API's store
// dependencies, and runs the server until interrupted.
func Start() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateErr := cfg.Validate(config.CommandHTTPD); validateErr != nil {
		return fmt.Errorf("invalid config: %w", validateErr)
	}

	log, err := logger.New(&logger.Config{Level: logger.InfoLevel, Encoding: "json"})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.GetDatabaseConfig().URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	deps := api.Dependencies{
		Sites:     database.NewSiteRepository(db),
		Jobs:      database.NewCrawlJobRepository(db),
		Pages:     database.NewPageRepository(db),
		Files:     database.NewGeneratedFileRepository(db),
		Schedules: database.NewScheduleRepository(db),
		Queue:     database.NewTaskRepository(db),
	}

	server := api.StartHTTPServer(log, deps, cfg)

	log.Info("starting HTTP server", "addr", cfg.GetServerConfig().Address)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runUntilInterrupt(log, server, errChan)
}

func runUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serveErr := <-errChan:
		log.Error("server error", "error", serveErr.Error())
		return fmt.Errorf("server error: %w", serveErr)
	case sig := <-sigChan:
		log.Info("shutdown signal received", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("shut down server: %w", shutdownErr)
		}
		log.Info("server stopped successfully")
		return nil
	}
}
