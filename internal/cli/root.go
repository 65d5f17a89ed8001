// Package cli implements the rigwatch command tree.
//
// # Operating Modes
//
// - status: one-shot fetch and print of the raw status payload
// - health: one-shot health evaluation, exit code reflects overall health
// - report: one-shot sample plus performance report
// - monitor: continuous monitoring loop until interrupted
package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/minerops/rigwatch/internal/client"
	"github.com/minerops/rigwatch/internal/config"
	"github.com/minerops/rigwatch/internal/secrets"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo records build metadata injected via ldflags.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var (
	flagConfig string
	flagURL    string
	flagToken  string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:          "rigwatch",
	Short:        "Supervisory monitoring agent for a mining-control API",
	Long: `rigwatch polls a mining-control HTTP API, evaluates miner health against
fixed thresholds, detects alertable conditions and dispatches notifications
when conditions degrade.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Mining API base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Authentication token")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(statusCmd, healthCmd, reportCmd, monitorCmd, versionCmd)
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration: defaults, then config
// file, then environment, then flags, then secret resolution.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if flagConfig != "" {
		fileCfg, err := config.LoadFromFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.ApplyEnvOverrides()

	if flagURL != "" {
		cfg.API.URL = flagURL
	}
	if flagToken != "" {
		cfg.API.Token = flagToken
	}

	if err := resolveSecrets(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// resolveSecrets replaces op:// references in the config. The resolver is
// only constructed when a reference is actually present.
func resolveSecrets(cfg *config.Config) error {
	if !secrets.IsRef(cfg.API.Token) && !secrets.IsRef(cfg.Notify.SMTP.Password) {
		return nil
	}

	resolver, err := secrets.NewResolverFromEnv(newLogger(cfg))
	if err != nil {
		return err
	}

	if cfg.API.Token, err = resolver.Resolve(cfg.API.Token); err != nil {
		return err
	}
	if cfg.Notify.SMTP.Password, err = resolver.Resolve(cfg.Notify.SMTP.Password); err != nil {
		return err
	}
	return nil
}

// newLogger builds the slog logger: stderr, plus a rotating file when
// configured.
func newLogger(cfg *config.Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		})
	}

	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.Log.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClient builds the API client from resolved configuration.
func newClient(cfg *config.Config) *client.Client {
	return client.New(client.Config{
		BaseURL:   cfg.API.URL,
		AuthToken: cfg.API.Token,
		Timeout:   cfg.API.RequestTimeout,
		RateLimit: cfg.API.RateLimit,
	})
}
