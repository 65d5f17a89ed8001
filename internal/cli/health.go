package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minerops/rigwatch/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run a one-shot health check; exit code reflects overall health",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		c := newClient(cfg)
		ctx := context.Background()

		// Partial failure degrades the affected checks rather than
		// aborting: an unreachable API is itself a health finding.
		status, err := c.FetchStatus(ctx)
		if err != nil {
			logger.Error("failed to get status", "error", err)
		}
		devices, err := c.FetchDevices(ctx)
		if err != nil {
			logger.Error("failed to get devices", "error", err)
		}
		pools, err := c.FetchPools(ctx)
		if err != nil {
			logger.Error("failed to get pools", "error", err)
		}

		report := health.Evaluate(status, devices, pools, cfg.Thresholds)

		fmt.Println("Health Check Results:")
		fmt.Println(strings.Repeat("=", 20))
		for _, check := range report.Checks() {
			mark := "✗"
			if check.OK {
				mark = "✓"
			}
			fmt.Printf("%s %s\n", mark, checkTitle(check.Name))
		}

		if report.Healthy() {
			fmt.Println("\nOverall Status: HEALTHY")
			return nil
		}
		fmt.Println("\nOverall Status: UNHEALTHY")
		os.Exit(1)
		return nil
	},
}

// checkTitle turns "api_responsive" into "Api Responsive".
func checkTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
