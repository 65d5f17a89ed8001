package health

import (
	"testing"

	"github.com/minerops/rigwatch/pkg/types"
)

func floatPtr(v float64) *float64 { return &v }

func healthyStatus() *types.Status {
	return &types.Status{
		Success: true,
		Data: types.StatusSnapshot{
			MiningState:    types.MiningStateRunning,
			TotalHashrate:  45.0,
			HardwareErrors: 2,
			ActiveDevices:  1,
		},
	}
}

func TestEvaluate_AllHealthy(t *testing.T) {
	devices := []types.DeviceInfo{
		{DeviceID: 0, Status: types.DeviceStatusMining, Temperature: floatPtr(60), Hashrate: 20},
	}
	pools := []types.PoolInfo{{Status: types.PoolStatusConnected}}

	report := Evaluate(healthyStatus(), devices, pools, types.DefaultThresholds())

	if !report.Healthy() {
		t.Errorf("expected healthy report, got %+v", report)
	}
	for _, check := range report.Checks() {
		if !check.OK {
			t.Errorf("check %s = false, want true", check.Name)
		}
	}
}

func TestEvaluate_MiningStopped(t *testing.T) {
	status := &types.Status{
		Success: true,
		Data: types.StatusSnapshot{
			MiningState:   types.MiningStateStopped,
			TotalHashrate: 10.0,
		},
	}

	report := Evaluate(status, nil, nil, types.DefaultThresholds())

	if !report.APIResponsive {
		t.Error("api_responsive = false, want true")
	}
	if report.MiningActive {
		t.Error("mining_active = true, want false")
	}
	if report.HashrateOK {
		t.Error("hashrate_ok = true, want false")
	}
}

func TestEvaluate_StatusAbsent(t *testing.T) {
	report := Evaluate(nil, nil, nil, types.DefaultThresholds())

	if report.APIResponsive || report.MiningActive || report.HashrateOK {
		t.Errorf("status-derived checks should all fail without a status, got %+v", report)
	}
}

func TestEvaluate_ApplicationFailure(t *testing.T) {
	status := &types.Status{Success: false, Data: types.StatusSnapshot{
		MiningState:   types.MiningStateRunning,
		TotalHashrate: 45.0,
	}}

	report := Evaluate(status, nil, nil, types.DefaultThresholds())

	if report.APIResponsive {
		t.Error("api_responsive = true for success=false payload, want false")
	}
	if report.MiningActive || report.HashrateOK {
		t.Error("status-derived checks must ignore data when success=false")
	}
}

func TestEvaluate_DeviceFraction(t *testing.T) {
	mining := func(temp, hashrate float64) types.DeviceInfo {
		return types.DeviceInfo{Status: types.DeviceStatusMining, Temperature: floatPtr(temp), Hashrate: hashrate}
	}

	tests := []struct {
		name    string
		devices []types.DeviceInfo
		want    bool
	}{
		{
			name:    "empty list fails",
			devices: nil,
			want:    false,
		},
		{
			name:    "single healthy device",
			devices: []types.DeviceInfo{mining(60, 20)},
			want:    true,
		},
		{
			name: "four of five healthy is exactly 0.8",
			devices: []types.DeviceInfo{
				mining(60, 20), mining(61, 21), mining(62, 22), mining(63, 23),
				{Status: types.DeviceStatusIdle, Temperature: floatPtr(40), Hashrate: 0},
			},
			want: true,
		},
		{
			name: "three of five healthy is below 0.8",
			devices: []types.DeviceInfo{
				mining(60, 20), mining(61, 21), mining(62, 22),
				{Status: types.DeviceStatusIdle, Hashrate: 0},
				{Status: types.DeviceStatusError, Hashrate: 0},
			},
			want: false,
		},
		{
			name:    "hot device fails",
			devices: []types.DeviceInfo{mining(90, 5)},
			want:    false,
		},
		{
			name: "absent temperature counts as cool",
			devices: []types.DeviceInfo{
				{Status: types.DeviceStatusMining, Hashrate: 20},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Evaluate(healthyStatus(), tt.devices, nil, types.DefaultThresholds())
			if report.DevicesHealthy != tt.want {
				t.Errorf("devices_healthy = %v, want %v", report.DevicesHealthy, tt.want)
			}
			// devices_healthy and temperature_ok are one computation.
			if report.DevicesHealthy != report.TemperatureOK {
				t.Errorf("devices_healthy (%v) and temperature_ok (%v) diverged",
					report.DevicesHealthy, report.TemperatureOK)
			}
		})
	}
}

func TestEvaluate_Pools(t *testing.T) {
	tests := []struct {
		name  string
		pools []types.PoolInfo
		want  bool
	}{
		{"no pools", nil, false},
		{"disconnected only", []types.PoolInfo{{Status: "Disconnected"}}, false},
		{"one connected", []types.PoolInfo{{Status: "Disconnected"}, {Status: types.PoolStatusConnected}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Evaluate(healthyStatus(), nil, tt.pools, types.DefaultThresholds())
			if report.PoolsConnected != tt.want {
				t.Errorf("pools_connected = %v, want %v", report.PoolsConnected, tt.want)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	devices := []types.DeviceInfo{
		{DeviceID: 0, Status: types.DeviceStatusMining, Temperature: floatPtr(60), Hashrate: 20},
		{DeviceID: 1, Status: types.DeviceStatusError, Hashrate: 0},
	}
	pools := []types.PoolInfo{{Status: "Disconnected"}}

	first := Evaluate(healthyStatus(), devices, pools, types.DefaultThresholds())
	second := Evaluate(healthyStatus(), devices, pools, types.DefaultThresholds())

	if first != second {
		t.Errorf("evaluation not idempotent: %+v vs %+v", first, second)
	}
}
