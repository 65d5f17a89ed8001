// Package history retains a bounded rolling window of performance samples.
//
// # Retention
//
// Samples are kept for 24 hours relative to the most recently appended
// sample's own timestamp, not the wall clock. Eviction happens only as a
// side effect of Append, which keeps the operation deterministic: appending
// the same samples always leaves the same window.
//
// History is owned by the monitor loop, which is its only writer. It is not
// safe for concurrent use.
package history

import (
	"time"

	"github.com/minerops/rigwatch/pkg/types"
)

// DefaultRetention is the rolling window span.
const DefaultRetention = 24 * time.Hour

// History is an append-only, time-bounded sequence of metric samples,
// ordered by timestamp.
type History struct {
	samples   []types.MetricSample
	retention time.Duration
}

// New creates an empty history. A non-positive retention falls back to
// DefaultRetention.
func New(retention time.Duration) *History {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &History{retention: retention}
}

// Append inserts a new sample and evicts everything that has fallen out of
// the retention window anchored at the new sample's timestamp. A sample
// exactly at the window boundary is retained.
func (h *History) Append(sample types.MetricSample) {
	h.samples = append(h.samples, sample)

	cutoff := sample.Timestamp.Add(-h.retention)
	idx := 0
	for idx < len(h.samples) && h.samples[idx].Timestamp.Before(cutoff) {
		idx++
	}
	if idx > 0 {
		h.samples = append(h.samples[:0], h.samples[idx:]...)
	}
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Latest returns the most recently appended sample.
func (h *History) Latest() (types.MetricSample, bool) {
	if len(h.samples) == 0 {
		return types.MetricSample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// First returns the oldest retained sample.
func (h *History) First() (types.MetricSample, bool) {
	if len(h.samples) == 0 {
		return types.MetricSample{}, false
	}
	return h.samples[0], true
}

// All returns a copy of the retained samples in time order.
func (h *History) All() []types.MetricSample {
	out := make([]types.MetricSample, len(h.samples))
	copy(out, h.samples)
	return out
}

// NewSample builds a metric sample from one poll's status data and device
// list. Only device entries with a positive temperature and a positive
// hashrate contribute to the per-device arrays; a zero reading means the
// sensor reported nothing useful.
func NewSample(ts time.Time, data types.StatusSnapshot, devices []types.DeviceInfo) types.MetricSample {
	sample := types.MetricSample{
		Timestamp:      ts,
		TotalHashrate:  data.TotalHashrate,
		AcceptedShares: data.AcceptedShares,
		RejectedShares: data.RejectedShares,
		HardwareErrors: data.HardwareErrors,
		ActiveDevices:  data.ActiveDevices,
		Uptime:         data.Uptime,
	}
	for _, dev := range devices {
		if dev.Temperature != nil && *dev.Temperature > 0 {
			sample.DeviceTemperatures = append(sample.DeviceTemperatures, *dev.Temperature)
		}
		if dev.Hashrate > 0 {
			sample.DeviceHashrates = append(sample.DeviceHashrates, dev.Hashrate)
		}
	}
	return sample
}
