// Package worker implements the `service worker` subcommand: the claim-loop
// process that executes queued CrawlTasks and, optionally, the cooperative
// cron scheduler (spec §4.5, §4.6, §6).
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gocrawl/internal/assembler"
	"github.com/jonesrussell/gocrawl/internal/config"
	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/logger"
	"github.com/jonesrussell/gocrawl/internal/scheduler"
	workerruntime "github.com/jonesrussell/gocrawl/internal/worker"
)

var cfgFile string

// Command returns the `worker` cobra subcommand.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the crawl task claim loop",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Start()
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "path to an optional YAML config file")
	return cmd
}

// Start wires the Runtime's claim loop (and the cron Scheduler, when
// RUN_SCHEDULER=true) against Postgres, running both until interrupted.
func Start() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateErr := cfg.Validate(config.CommandWorker); validateErr != nil {
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

	sites := database.NewSiteRepository(db)
	jobs := database.NewCrawlJobRepository(db)
	pages := database.NewPageRepository(db)
	files := database.NewGeneratedFileRepository(db)
	tasks := database.NewTaskRepository(db)

	asm := selectAssembler(cfg)
	regenerator := workerruntime.NewRegenerator(sites, pages, files, asm)

	crawlerCfg := *cfg.GetCrawlerConfig()
	pipeline := workerruntime.NewCrawlPipeline(sites, jobs, pages, crawlerCfg, log, regenerator.Regenerate)

	workerCfg := *cfg.GetWorkerConfig()
	runtime := workerruntime.New(tasks, pipeline, log, workerCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("worker: starting claim loop", "worker_id", workerCfg.WorkerID)
		runtime.Run(ctx)
	}()

	if workerCfg.RunScheduler {
		cron := scheduler.New(database.NewScheduleRepository(db), jobs, tasks, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("worker: starting cron scheduler")
			cron.Run(ctx)
		}()
	}

	waitForShutdown(log)
	cancel()
	wg.Wait()

	log.Info("worker: stopped")
	return nil
}

// selectAssembler picks the external LLM assembler when LLM_API_KEY is
// configured, otherwise the deterministic template assembler (spec §9).
func selectAssembler(cfg config.Interface) assembler.Assembler {
	llmCfg := cfg.GetLLMConfig()
	if llmCfg.Enabled() {
		return assembler.NewExternalLLMAssembler(llmCfg.APIKey, llmCfg.Model)
	}
	return assembler.NewTemplateAssembler()
}

func waitForShutdown(log logger.Interface) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("worker: shutdown signal received", "signal", sig.String())
}
