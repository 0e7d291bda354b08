package main

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the service entrypoint", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("When it runs on an ephemeral port until cancelled", func() {
			_ = os.Setenv("LINEUP_ADDR", "127.0.0.1:0")
			defer func() { _ = os.Unsetenv("LINEUP_ADDR") }()

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			err := run(ctx)

			convey.Convey("Then it shuts down cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			_ = os.Setenv("LINEUP_DECAY", "3")
			defer func() { _ = os.Unsetenv("LINEUP_DECAY") }()

			err := run(context.Background())

			convey.Convey("Then run fails before listening", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address cannot be parsed", func() {
			_ = os.Setenv("LINEUP_ADDR", "invalid-address")
			defer func() { _ = os.Unsetenv("LINEUP_ADDR") }()

			err := run(context.Background())

			convey.Convey("Then the listen error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns when its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
