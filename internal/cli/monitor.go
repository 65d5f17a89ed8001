package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minerops/rigwatch/internal/alert"
	"github.com/minerops/rigwatch/internal/history"
	"github.com/minerops/rigwatch/internal/monitor"
	"github.com/minerops/rigwatch/internal/notify"
	"github.com/minerops/rigwatch/internal/observability"
)

var flagInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the continuous monitoring loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagInterval > 0 {
			cfg.Monitor.Interval = flagInterval
		}

		logger := newLogger(cfg)

		flush, sentryOn, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment, version)
		if err != nil {
			logger.Warn("sentry init failed, continuing without capture", "error", err)
		}
		defer flush()

		// A delivery channel failing to come up must not stop the
		// monitor; the channel is skipped and the loop runs without it.
		var senders []notify.Sender
		if cfg.Notify.SMTP.Configured() {
			senders = append(senders, notify.NewSMTPSender(cfg.Notify.SMTP))
		}
		if cfg.Notify.Redis.URL != "" {
			redisSender, err := notify.NewRedisSender(cfg.Notify.Redis)
			if err != nil {
				logger.Warn("redis notifier unavailable", "error", err)
			} else {
				senders = append(senders, redisSender)
				defer redisSender.Close()
			}
		}

		mon := monitor.New(
			newClient(cfg),
			alert.Detect,
			notify.New(senders, logger),
			history.New(cfg.Monitor.Retention),
			monitor.Config{
				Interval:   cfg.Monitor.Interval,
				Thresholds: cfg.Thresholds,
				Logger:     logger,
			},
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		}()

		logger.Info("starting rigwatch",
			"version", version,
			"api", cfg.API.URL,
			"interval", cfg.Monitor.Interval,
			"channels", len(senders),
			"sentry", sentryOn)

		if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&flagInterval, "interval", 0, "Monitoring interval (default from config, 60s)")
}
