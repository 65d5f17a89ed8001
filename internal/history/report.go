package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/minerops/rigwatch/pkg/types"
)

// RangeStats summarizes a per-device metric array.
type RangeStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Report summarizes the retained window: the newest sample's raw fields,
// device ranges from its per-device arrays, and a shares-per-hour trend when
// at least two samples remain.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Latest      types.MetricSample `json:"latest"`
	SampleCount int                `json:"sample_count"`

	Temperatures *RangeStats `json:"temperatures,omitempty"`
	Hashrates    *RangeStats `json:"hashrates,omitempty"`

	SharesPerHour *float64 `json:"shares_per_hour,omitempty"`
}

// GenerateReport builds a report over the current window. It returns false
// when no samples have been retained.
func (h *History) GenerateReport() (*Report, bool) {
	latest, ok := h.Latest()
	if !ok {
		return nil, false
	}

	report := &Report{
		GeneratedAt: latest.Timestamp,
		Latest:      latest,
		SampleCount: len(h.samples),
	}
	report.Temperatures = rangeStats(latest.DeviceTemperatures)
	report.Hashrates = rangeStats(latest.DeviceHashrates)

	if len(h.samples) >= 2 {
		first := h.samples[0]
		elapsed := latest.Timestamp.Sub(first.Timestamp).Hours()
		if elapsed > 0 {
			perHour := float64(latest.AcceptedShares-first.AcceptedShares) / elapsed
			report.SharesPerHour = &perHour
		}
	}

	return report, true
}

// rangeStats returns nil for an empty array.
func rangeStats(values []float64) *RangeStats {
	if len(values) == 0 {
		return nil
	}
	stats := RangeStats{Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Avg = sum / float64(len(values))
	return &stats
}

// Render produces the human-readable report text.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("Miner Performance Report\n")
	b.WriteString(strings.Repeat("=", 35) + "\n\n")

	fmt.Fprintf(&b, "Report Time: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Hashrate: %.1f GH/s\n", r.Latest.TotalHashrate)
	fmt.Fprintf(&b, "Accepted Shares: %d\n", r.Latest.AcceptedShares)
	fmt.Fprintf(&b, "Rejected Shares: %d\n", r.Latest.RejectedShares)
	fmt.Fprintf(&b, "Hardware Errors: %d\n", r.Latest.HardwareErrors)
	fmt.Fprintf(&b, "Active Devices: %d\n", r.Latest.ActiveDevices)
	fmt.Fprintf(&b, "Uptime: %d seconds\n\n", r.Latest.Uptime)

	if r.Temperatures != nil {
		fmt.Fprintf(&b, "Device Temperatures: %.1f°C - %.1f°C (avg: %.1f°C)\n",
			r.Temperatures.Min, r.Temperatures.Max, r.Temperatures.Avg)
	}
	if r.Hashrates != nil {
		fmt.Fprintf(&b, "Device Hashrates: %.1f - %.1f GH/s (avg: %.1f GH/s)\n",
			r.Hashrates.Min, r.Hashrates.Max, r.Hashrates.Avg)
	}

	if r.SharesPerHour != nil {
		b.WriteString("\n24-Hour Trends:\n")
		b.WriteString(strings.Repeat("-", 15) + "\n")
		fmt.Fprintf(&b, "Shares per hour: %.1f\n", *r.SharesPerHour)
	}

	return b.String()
}
