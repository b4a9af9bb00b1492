package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/stablehand/temperament/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.MaturityCutoffDays, convey.ShouldEqual, 180)
			convey.So(cfg.EvalIntervalMinutes, convey.ShouldEqual, 15)
			convey.So(cfg.FlagDefsPath, convey.ShouldBeEmpty)
			convey.So(cfg.DBPath, convey.ShouldBeEmpty)
		})
	})
}
