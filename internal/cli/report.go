package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minerops/rigwatch/internal/history"
	"github.com/minerops/rigwatch/internal/procstats"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collect one performance sample and print a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		c := newClient(cfg)
		ctx := context.Background()

		hist := history.New(cfg.Monitor.Retention)

		status, err := c.FetchStatus(ctx)
		if err != nil {
			logger.Error("failed to get status", "error", err)
		}
		if status != nil && status.Success {
			devices, err := c.FetchDevices(ctx)
			if err != nil {
				logger.Error("failed to get devices", "error", err)
			}
			hist.Append(history.NewSample(time.Now(), status.Data, devices))
		}

		report, ok := hist.GenerateReport()
		if !ok {
			fmt.Println("No performance data available")
			return nil
		}
		fmt.Print(report.Render())

		self := procstats.Collect()
		fmt.Printf("\nAgent: %.1f MB RSS, %d goroutines\n", self.RSSMB, self.Goroutines)
		return nil
	},
}
