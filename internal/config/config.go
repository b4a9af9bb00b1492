// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory evaluation job queue.
	QueueSize int `koanf:"queue_size"`

	// WindowDays sets the rolling interaction window for pattern analysis.
	WindowDays int `koanf:"window_days"`

	// MaturityCutoffDays sets the age past which subjects are no longer
	// evaluated for new flags.
	MaturityCutoffDays int `koanf:"maturity_cutoff_days"`

	// EvalIntervalMinutes sets the period of the background evaluation
	// sweep. Zero disables the sweep.
	EvalIntervalMinutes int `koanf:"eval_interval_minutes"`

	// FlagDefsPath points at an optional YAML file of flag definitions.
	// When empty the built-in definitions are used.
	FlagDefsPath string `koanf:"flag_defs_path"`

	// DBPath points at the SQLite database file. When empty the service
	// runs on the in-memory store.
	DBPath string `koanf:"db_path"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		WorkerCount:         runtime.NumCPU() * 2,
		QueueSize:           10_000,
		WindowDays:          30,
		MaturityCutoffDays:  180,
		EvalIntervalMinutes: 15,
	}
	return c
}
