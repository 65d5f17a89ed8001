// Package monitor runs the continuous monitoring loop.
//
// # Cycle
//
// Each cycle polls the three API resources concurrently, detects alerts,
// notifies when any were found, appends a performance sample (only when the
// status fetch succeeded at the application level) and emits one status log
// line. The loop then sleeps for the configured interval.
//
// # Failure Isolation
//
// Nothing escapes a cycle. A failed fetch degrades that cycle's data to
// absent, a notification failure is swallowed inside the notifier, and a
// panic anywhere in the cycle is recovered at the cycle boundary. Only
// context cancellation terminates the loop.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minerops/rigwatch/internal/history"
	"github.com/minerops/rigwatch/internal/observability"
	"github.com/minerops/rigwatch/internal/procstats"
	"github.com/minerops/rigwatch/pkg/types"
)

// DefaultInterval between monitoring cycles.
const DefaultInterval = 60 * time.Second

// Source fetches the three API resources. Implementations must be safe for
// the concurrent per-cycle fetches.
type Source interface {
	FetchStatus(ctx context.Context) (*types.Status, error)
	FetchDevices(ctx context.Context) ([]types.DeviceInfo, error)
	FetchPools(ctx context.Context) ([]types.PoolInfo, error)
}

// AlertSink receives each cycle's alert batch. It must not return delivery
// failures to the loop.
type AlertSink interface {
	Notify(ctx context.Context, alerts []types.Alert)
}

// Detector turns one cycle's poll data into alerts.
type Detector func(ts time.Time, status *types.Status, devices []types.DeviceInfo, pools []types.PoolInfo, thr types.Thresholds) []types.Alert

// Config for the monitor.
type Config struct {
	Interval   time.Duration
	Thresholds types.Thresholds
	Logger     *slog.Logger
}

// Monitor is the monitoring loop. It exclusively owns the performance
// history for its lifetime.
type Monitor struct {
	source   Source
	detector Detector
	notifier AlertSink
	history  *history.History

	interval   time.Duration
	thresholds types.Thresholds
	logger     *slog.Logger
	runID      string
}

// New creates a monitor around a source, a detector and an alert sink.
func New(source Source, detector Detector, notifier AlertSink, hist *history.History, cfg Config) *Monitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if hist == nil {
		hist = history.New(history.DefaultRetention)
	}
	return &Monitor{
		source:     source,
		detector:   detector,
		notifier:   notifier,
		history:    hist,
		interval:   interval,
		thresholds: cfg.Thresholds,
		logger:     logger.With("component", "monitor"),
		runID:      uuid.NewString(),
	}
}

// History returns the monitor-owned performance history. Callers must only
// read it after Run has returned.
func (m *Monitor) History() *history.History {
	return m.history
}

// Run starts the loop and blocks until the context is cancelled. The first
// cycle runs immediately.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("starting monitoring loop",
		"run_id", m.runID,
		"interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitoring loop stopped", "run_id", m.runID)
			return ctx.Err()
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

// pollResult holds one cycle's fetched data. Absent resources stay nil.
type pollResult struct {
	status  *types.Status
	devices []types.DeviceInfo
	pools   []types.PoolInfo
}

// runCycle executes a single monitoring cycle. It never lets an error or
// panic unwind past the cycle boundary.
func (m *Monitor) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("monitoring cycle panic: %v", r)
			m.logger.Error("cycle failed", "error", err)
			observability.CaptureError(err, map[string]string{"run_id": m.runID}, nil)
		}
	}()

	now := time.Now()
	poll := m.poll(ctx)

	alerts := m.detector(now, poll.status, poll.devices, poll.pools, m.thresholds)
	if len(alerts) > 0 {
		m.logger.Warn("alerts detected", "count", len(alerts))
		for _, a := range alerts {
			m.logger.Warn("alert", "severity", a.Severity, "message", a.Message)
		}
		m.notifier.Notify(ctx, alerts)
	}

	if poll.status != nil && poll.status.Success {
		m.history.Append(history.NewSample(now, poll.status.Data, poll.devices))

		data := poll.status.Data
		m.logger.Info("status",
			"state", data.MiningState,
			"hashrate_ghs", data.TotalHashrate,
			"devices", data.ActiveDevices,
			"shares", data.AcceptedShares,
			"history_samples", m.history.Len())
	}

	self := procstats.Collect()
	m.logger.Debug("cycle complete",
		"duration", time.Since(now),
		"goroutines", self.Goroutines,
		"rss_mb", self.RSSMB,
		"cpu_percent", self.CPUPercent)
}

// poll issues the three fetches concurrently and waits for all of them.
// Failures are logged and leave that resource absent for the cycle; the next
// scheduled cycle is the retry.
func (m *Monitor) poll(ctx context.Context) pollResult {
	var result pollResult
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		status, err := m.source.FetchStatus(ctx)
		if err != nil {
			m.logger.Error("failed to get status", "error", err)
			return
		}
		result.status = status
	}()

	go func() {
		defer wg.Done()
		devices, err := m.source.FetchDevices(ctx)
		if err != nil {
			m.logger.Error("failed to get devices", "error", err)
			return
		}
		result.devices = devices
	}()

	go func() {
		defer wg.Done()
		pools, err := m.source.FetchPools(ctx)
		if err != nil {
			m.logger.Error("failed to get pools", "error", err)
			return
		}
		result.pools = pools
	}()

	wg.Wait()
	return result
}
