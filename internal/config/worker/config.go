// Package worker provides configuration for the worker runtime's claim
// loop and cron scheduler (spec §4.6, §6).
package worker

import (
	"os"
	"strconv"
)

// Default values (spec §6).
const (
	DefaultWorkerID          = "worker-1"
	DefaultRunScheduler      = false
	DefaultTaskLeaseSeconds  = 60
	DefaultTaskMaxAttempts   = 5
	DefaultPollIntervalSecs  = 2
	DefaultHeartbeatSecs     = 10
	DefaultSchedulerTickSecs = 30
)

// Config drives the worker's identity, lease duration, and whether this
// process also runs the cron scheduler loop.
type Config struct {
	WorkerID          string `yaml:"worker_id" env:"WORKER_ID"`
	RunScheduler      bool   `yaml:"run_scheduler" env:"RUN_SCHEDULER"`
	TaskLeaseSeconds  int    `yaml:"task_lease_seconds" env:"TASK_LEASE_SECONDS"`
	TaskMaxAttempts   int    `yaml:"task_max_attempts" env:"TASK_MAX_ATTEMPTS"`
	PollIntervalSecs  int    `yaml:"poll_interval_seconds"`
	HeartbeatSecs     int    `yaml:"heartbeat_seconds"`
	SchedulerTickSecs int    `yaml:"scheduler_tick_seconds"`
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// New builds a Config from the environment.
func New() *Config {
	workerID := os.Getenv("WORKER_ID")
	if workerID == "" {
		workerID = DefaultWorkerID
	}
	return &Config{
		WorkerID:          workerID,
		RunScheduler:      envBool("RUN_SCHEDULER", DefaultRunScheduler),
		TaskLeaseSeconds:  envInt("TASK_LEASE_SECONDS", DefaultTaskLeaseSeconds),
		TaskMaxAttempts:   envInt("TASK_MAX_ATTEMPTS", DefaultTaskMaxAttempts),
		PollIntervalSecs:  DefaultPollIntervalSecs,
		HeartbeatSecs:     DefaultHeartbeatSecs,
		SchedulerTickSecs: DefaultSchedulerTickSecs,
	}
}
