package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fortsentinel/dispatch/internal/config"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given the configuration loader", t, func() {
		convey.Convey("When nothing is set in the environment", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
				convey.So(cfg.DispatchDir, convey.ShouldEqual, "dispatch")
				convey.So(cfg.TitleWeight, convey.ShouldEqual, 2.0)
				convey.So(cfg.BodyWeight, convey.ShouldEqual, 1.0)
				convey.So(cfg.RouteThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.RouteTopK, convey.ShouldEqual, 3)
				convey.So(cfg.BodyLimit, convey.ShouldEqual, 600)
				convey.So(cfg.NewsAPIPageSize, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("SENTINEL_ADDR", ":9999")
			_ = os.Setenv("SENTINEL_DISPATCH_DIR", "/tmp/dispatches")
			_ = os.Setenv("SENTINEL_ROUTE_TOP_K", "5")
			_ = os.Setenv("SENTINEL_TITLE_WEIGHT", "3.5")
			defer func() {
				_ = os.Unsetenv("SENTINEL_ADDR")
				_ = os.Unsetenv("SENTINEL_DISPATCH_DIR")
				_ = os.Unsetenv("SENTINEL_ROUTE_TOP_K")
				_ = os.Unsetenv("SENTINEL_TITLE_WEIGHT")
			}()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
				convey.So(cfg.DispatchDir, convey.ShouldEqual, "/tmp/dispatches")
				convey.So(cfg.RouteTopK, convey.ShouldEqual, 5)
				convey.So(cfg.TitleWeight, convey.ShouldEqual, 3.5)
			})
		})

		convey.Convey("When a config file is referenced", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":7070\"\nbody_limit: 300\n"), 0o644), convey.ShouldBeNil)
			_ = os.Setenv("SENTINEL_CONFIG", path)
			defer func() { _ = os.Unsetenv("SENTINEL_CONFIG") }()

			convey.Convey("Then file values layer over defaults", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.BodyLimit, convey.ShouldEqual, 300)
			})

			convey.Convey("And environment variables still win over the file", func() {
				_ = os.Setenv("SENTINEL_ADDR", ":6060")
				defer func() { _ = os.Unsetenv("SENTINEL_ADDR") }()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the referenced config file is missing", func() {
			_ = os.Setenv("SENTINEL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			defer func() { _ = os.Unsetenv("SENTINEL_CONFIG") }()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})

		convey.Convey("When a value fails validation", func() {
			convey.Convey("An empty dispatch dir is rejected", func() {
				_ = os.Setenv("SENTINEL_DISPATCH_DIR", "")
				defer func() { _ = os.Unsetenv("SENTINEL_DISPATCH_DIR") }()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})

			convey.Convey("A non-positive weight is rejected", func() {
				_ = os.Setenv("SENTINEL_TITLE_WEIGHT", "-1")
				defer func() { _ = os.Unsetenv("SENTINEL_TITLE_WEIGHT") }()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})

			convey.Convey("A non-positive top-K is rejected", func() {
				_ = os.Setenv("SENTINEL_ROUTE_TOP_K", "0")
				defer func() { _ = os.Unsetenv("SENTINEL_ROUTE_TOP_K") }()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
