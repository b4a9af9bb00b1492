package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/stablehand/temperament/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WindowDays, convey.ShouldEqual, 30)
				convey.So(cfg.MaturityCutoffDays, convey.ShouldEqual, 180)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TEMPERAMENT_ADDR", ":8080")
			_ = os.Setenv("TEMPERAMENT_QUEUE_SIZE", "5000")
			_ = os.Setenv("TEMPERAMENT_WORKER_COUNT", "16")
			_ = os.Setenv("TEMPERAMENT_WINDOW_DAYS", "14")
			_ = os.Setenv("TEMPERAMENT_MATURITY_CUTOFF_DAYS", "365")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.WindowDays, convey.ShouldEqual, 14)
				convey.So(cfg.MaturityCutoffDays, convey.ShouldEqual, 365)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
worker_count: 4
window_days: 60
eval_interval_minutes: 5
db_path: "/tmp/temperament.db"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEMPERAMENT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.WindowDays, convey.ShouldEqual, 60)
				convey.So(cfg.EvalIntervalMinutes, convey.ShouldEqual, 5)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/temperament.db")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
worker_count: 4
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEMPERAMENT_CONFIG", tmpFile)
			_ = os.Setenv("TEMPERAMENT_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("TEMPERAMENT_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")   // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2000) // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEMPERAMENT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TEMPERAMENT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TEMPERAMENT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive window", func() {
			_ = os.Setenv("TEMPERAMENT_WINDOW_DAYS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "window_days must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 16
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TEMPERAMENT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")           // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)         // From file
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)       // From defaults
				convey.So(cfg.WindowDays, convey.ShouldEqual, 30)          // From defaults
				convey.So(cfg.MaturityCutoffDays, convey.ShouldEqual, 180) // From defaults
				convey.So(cfg.EvalIntervalMinutes, convey.ShouldEqual, 15) // From defaults
			})
		})
	})
}

func clearConfigEnvVars() {
	vars := []string{
		"TEMPERAMENT_CONFIG",
		"TEMPERAMENT_ADDR",
		"TEMPERAMENT_LOG_LEVEL",
		"TEMPERAMENT_QUEUE_SIZE",
		"TEMPERAMENT_WORKER_COUNT",
		"TEMPERAMENT_WINDOW_DAYS",
		"TEMPERAMENT_MATURITY_CUTOFF_DAYS",
		"TEMPERAMENT_EVAL_INTERVAL_MINUTES",
		"TEMPERAMENT_FLAG_DEFS_PATH",
		"TEMPERAMENT_DB_PATH",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "temperament-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	_ = f.Close()
	return f.Name()
}
