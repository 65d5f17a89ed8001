// Package types defines the data model shared between rigwatch components.
//
// # Data Flow
//
// Status, DeviceInfo and PoolInfo are transient: fetched fresh each poll
// cycle and discarded once the evaluators have consumed them. MetricSample
// is the only thing retained, and only inside the in-memory performance
// history.
package types

import "time"

// Mining states reported by the control API.
const (
	MiningStateRunning = "Running"
	MiningStateStopped = "Stopped"
	MiningStateError   = "Error"
)

// Device states reported by the control API.
const (
	DeviceStatusMining = "Mining"
	DeviceStatusIdle   = "Idle"
	DeviceStatusError  = "Error"
)

// PoolStatusConnected is the only pool state the monitor cares about.
const PoolStatusConnected = "Connected"

// StatusSnapshot holds the aggregate miner state from GET /api/v1/status.
// Counters are monotonically non-decreasing while mining continues.
type StatusSnapshot struct {
	MiningState    string  `json:"mining_state"`
	TotalHashrate  float64 `json:"total_hashrate"` // GH/s
	AcceptedShares int64   `json:"accepted_shares"`
	RejectedShares int64   `json:"rejected_shares"`
	HardwareErrors int64   `json:"hardware_errors"`
	ActiveDevices  int     `json:"active_devices"`
	Uptime         int64   `json:"uptime"` // seconds
}

// Status is the full status payload. Success is the application-level
// outcome reported by the API itself, distinct from transport failures.
type Status struct {
	Success bool           `json:"success"`
	Data    StatusSnapshot `json:"data"`
}

// DeviceInfo describes one hash board / chain from GET /api/v1/devices.
// The device set may grow or shrink between polls; nothing here assumes a
// fixed count. Temperature is optional in the payload; Hashrate defaults to
// zero when absent, which deliberately trips the low-hashrate threshold.
type DeviceInfo struct {
	DeviceID    int      `json:"device_id"`
	Status      string   `json:"status"`
	Temperature *float64 `json:"temperature,omitempty"` // °C
	Hashrate    float64  `json:"hashrate"`              // GH/s
}

// PoolInfo describes one upstream pool from GET /api/v1/pools. Only the
// connected/not-connected aggregate matters to the monitor.
type PoolInfo struct {
	Status string `json:"status"`
}

// MetricSample is one retained performance data point. Device arrays carry
// only entries that were actually present in the poll.
type MetricSample struct {
	Timestamp          time.Time `json:"timestamp"`
	TotalHashrate      float64   `json:"total_hashrate"`
	AcceptedShares     int64     `json:"accepted_shares"`
	RejectedShares     int64     `json:"rejected_shares"`
	HardwareErrors     int64     `json:"hardware_errors"`
	ActiveDevices      int       `json:"active_devices"`
	Uptime             int64     `json:"uptime"`
	DeviceTemperatures []float64 `json:"device_temperatures,omitempty"`
	DeviceHashrates    []float64 `json:"device_hashrates,omitempty"`
}

// HealthReport is the outcome of the six fixed health checks. It is
// recomputed in full on every evaluation; there is no carried state.
type HealthReport struct {
	APIResponsive  bool `json:"api_responsive"`
	MiningActive   bool `json:"mining_active"`
	DevicesHealthy bool `json:"devices_healthy"`
	PoolsConnected bool `json:"pools_connected"`
	TemperatureOK  bool `json:"temperature_ok"`
	HashrateOK     bool `json:"hashrate_ok"`
}

// Healthy reports whether every check passed.
func (r HealthReport) Healthy() bool {
	return r.APIResponsive && r.MiningActive && r.DevicesHealthy &&
		r.PoolsConnected && r.TemperatureOK && r.HashrateOK
}

// HealthCheck pairs a check name with its outcome, for rendering.
type HealthCheck struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// Checks returns the report entries in their fixed order.
func (r HealthReport) Checks() []HealthCheck {
	return []HealthCheck{
		{Name: "api_responsive", OK: r.APIResponsive},
		{Name: "mining_active", OK: r.MiningActive},
		{Name: "devices_healthy", OK: r.DevicesHealthy},
		{Name: "pools_connected", OK: r.PoolsConnected},
		{Name: "temperature_ok", OK: r.TemperatureOK},
		{Name: "hashrate_ok", OK: r.HashrateOK},
	}
}

// Thresholds define when checks fail and alerts fire. Health checks and
// alert detection share these values but apply them with different
// comparisons, so both consumers take the struct rather than single fields.
type Thresholds struct {
	// MinTotalHashrate is the floor for the aggregate hashrate, GH/s.
	MinTotalHashrate float64 `json:"min_total_hashrate_ghs" yaml:"min_total_hashrate_ghs"`

	// MaxDeviceTemp is the per-device temperature ceiling, °C.
	MaxDeviceTemp float64 `json:"max_device_temp_c" yaml:"max_device_temp_c"`

	// MinDeviceHashrate is the per-device hashrate floor, GH/s.
	MinDeviceHashrate float64 `json:"min_device_hashrate_ghs" yaml:"min_device_hashrate_ghs"`

	// MaxHardwareErrors is the hardware error count that triggers a warning.
	MaxHardwareErrors int64 `json:"max_hardware_errors" yaml:"max_hardware_errors"`

	// HealthyDeviceFraction is the share of devices that must be fully
	// healthy for the device checks to pass.
	HealthyDeviceFraction float64 `json:"healthy_device_fraction" yaml:"healthy_device_fraction"`
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTotalHashrate:      30.0,
		MaxDeviceTemp:         85.0,
		MinDeviceHashrate:     15.0,
		MaxHardwareErrors:     10,
		HealthyDeviceFraction: 0.8,
	}
}
