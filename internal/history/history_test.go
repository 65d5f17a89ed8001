package history

import (
	"strings"
	"testing"
	"time"

	"github.com/minerops/rigwatch/pkg/types"
)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func sampleAt(ts time.Time, shares int64) types.MetricSample {
	return types.MetricSample{Timestamp: ts, AcceptedShares: shares}
}

func TestAppend_RetentionBoundary(t *testing.T) {
	h := New(DefaultRetention)

	// 25 hourly samples span exactly 24 hours: the oldest sits right on
	// the window boundary and must be retained.
	for i := 0; i < 25; i++ {
		h.Append(sampleAt(t0.Add(time.Duration(i)*time.Hour), int64(i)))
	}
	if h.Len() != 25 {
		t.Fatalf("Len = %d, want 25 (boundary sample retained)", h.Len())
	}

	// One more hour pushes the first sample out of the window.
	h.Append(sampleAt(t0.Add(25*time.Hour), 25))
	if h.Len() != 25 {
		t.Fatalf("Len = %d, want 25 after eviction", h.Len())
	}
	first, _ := h.First()
	if !first.Timestamp.Equal(t0.Add(time.Hour)) {
		t.Errorf("First = %v, want %v", first.Timestamp, t0.Add(time.Hour))
	}
}

func TestAppend_WindowInvariant(t *testing.T) {
	h := New(DefaultRetention)

	// Irregular spacing, including a large gap that evicts everything.
	offsets := []time.Duration{
		0, time.Minute, 3 * time.Hour, 20 * time.Hour,
		26 * time.Hour, 60 * time.Hour,
	}
	for i, off := range offsets {
		h.Append(sampleAt(t0.Add(off), int64(i)))

		newest, _ := h.Latest()
		for _, s := range h.All() {
			if newest.Timestamp.Sub(s.Timestamp) > DefaultRetention {
				t.Fatalf("after append %d: retained sample %v older than 24h relative to %v",
					i, s.Timestamp, newest.Timestamp)
			}
		}
	}

	if h.Len() != 1 {
		t.Errorf("Len = %d after 60h gap, want 1", h.Len())
	}
}

func TestAppend_EvictionAnchoredToSampleTime(t *testing.T) {
	// Old timestamps far in the past must still retain each other as long
	// as they are mutually within the window: eviction never consults the
	// wall clock.
	h := New(DefaultRetention)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	h.Append(sampleAt(past, 0))
	h.Append(sampleAt(past.Add(23*time.Hour), 1))

	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestAccessors(t *testing.T) {
	h := New(DefaultRetention)

	if _, ok := h.Latest(); ok {
		t.Error("Latest on empty history should report not ok")
	}
	if _, ok := h.First(); ok {
		t.Error("First on empty history should report not ok")
	}

	h.Append(sampleAt(t0, 10))
	h.Append(sampleAt(t0.Add(time.Hour), 20))

	first, _ := h.First()
	latest, _ := h.Latest()
	if first.AcceptedShares != 10 || latest.AcceptedShares != 20 {
		t.Errorf("First/Latest = %d/%d, want 10/20", first.AcceptedShares, latest.AcceptedShares)
	}

	all := h.All()
	all[0].AcceptedShares = 999
	if first, _ := h.First(); first.AcceptedShares != 10 {
		t.Error("All must return a copy, mutation leaked into history")
	}
}

func TestNewSample_DeviceArrays(t *testing.T) {
	temp := 72.5
	zero := 0.0
	devices := []types.DeviceInfo{
		{DeviceID: 0, Status: types.DeviceStatusMining, Temperature: &temp, Hashrate: 38.0},
		{DeviceID: 1, Status: types.DeviceStatusIdle, Hashrate: 0},        // no temp, zero hashrate
		{DeviceID: 2, Status: types.DeviceStatusIdle, Temperature: &zero}, // zero reading, not a measurement
	}
	data := types.StatusSnapshot{
		TotalHashrate:  38.0,
		AcceptedShares: 1250,
		ActiveDevices:  2,
		Uptime:         3600,
	}

	sample := NewSample(t0, data, devices)

	if len(sample.DeviceTemperatures) != 1 || sample.DeviceTemperatures[0] != 72.5 {
		t.Errorf("DeviceTemperatures = %v, want [72.5]", sample.DeviceTemperatures)
	}
	if len(sample.DeviceHashrates) != 1 || sample.DeviceHashrates[0] != 38.0 {
		t.Errorf("DeviceHashrates = %v, want [38]", sample.DeviceHashrates)
	}
	if sample.AcceptedShares != 1250 || sample.Uptime != 3600 {
		t.Errorf("status fields not carried over: %+v", sample)
	}
}

func TestGenerateReport_Empty(t *testing.T) {
	h := New(DefaultRetention)
	if _, ok := h.GenerateReport(); ok {
		t.Error("GenerateReport on empty history should report not ok")
	}
}

func TestGenerateReport_SingleSample(t *testing.T) {
	h := New(DefaultRetention)
	h.Append(types.MetricSample{
		Timestamp:          t0,
		TotalHashrate:      75.5,
		AcceptedShares:     100,
		DeviceTemperatures: []float64{60, 70, 80},
		DeviceHashrates:    []float64{20, 30},
	})

	report, ok := h.GenerateReport()
	if !ok {
		t.Fatal("GenerateReport failed")
	}

	if report.SharesPerHour != nil {
		t.Error("single sample must not produce a trend")
	}
	if report.Temperatures == nil {
		t.Fatal("Temperatures = nil, want stats")
	}
	if report.Temperatures.Min != 60 || report.Temperatures.Max != 80 || report.Temperatures.Avg != 70 {
		t.Errorf("temperature stats = %+v", report.Temperatures)
	}
	if report.Hashrates.Min != 20 || report.Hashrates.Max != 30 || report.Hashrates.Avg != 25 {
		t.Errorf("hashrate stats = %+v", report.Hashrates)
	}
}

func TestGenerateReport_Trend(t *testing.T) {
	h := New(DefaultRetention)
	h.Append(sampleAt(t0, 100))
	h.Append(sampleAt(t0.Add(2*time.Hour), 300))

	report, ok := h.GenerateReport()
	if !ok {
		t.Fatal("GenerateReport failed")
	}
	if report.SharesPerHour == nil {
		t.Fatal("SharesPerHour = nil, want trend over 2 samples")
	}
	if *report.SharesPerHour != 100 {
		t.Errorf("SharesPerHour = %v, want 100", *report.SharesPerHour)
	}
}

func TestGenerateReport_ZeroElapsedGuard(t *testing.T) {
	h := New(DefaultRetention)
	h.Append(sampleAt(t0, 100))
	h.Append(sampleAt(t0, 300)) // identical timestamps

	report, ok := h.GenerateReport()
	if !ok {
		t.Fatal("GenerateReport failed")
	}
	if report.SharesPerHour != nil {
		t.Error("zero elapsed time must not produce a trend")
	}
}

func TestReport_Render(t *testing.T) {
	h := New(DefaultRetention)
	h.Append(types.MetricSample{
		Timestamp:          t0,
		TotalHashrate:      75.5,
		AcceptedShares:     2430,
		DeviceTemperatures: []float64{65.5, 67.2},
	})
	h.Append(types.MetricSample{
		Timestamp:          t0.Add(time.Hour),
		TotalHashrate:      75.5,
		AcceptedShares:     2530,
		DeviceTemperatures: []float64{65.5, 67.2},
	})

	report, _ := h.GenerateReport()
	text := report.Render()

	for _, want := range []string{
		"Total Hashrate: 75.5 GH/s",
		"Accepted Shares: 2530",
		"Device Temperatures: 65.5°C - 67.2°C (avg: 66.3°C)",
		"Shares per hour: 100.0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered report missing %q:\n%s", want, text)
		}
	}
}
