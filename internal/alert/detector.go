// Package alert detects alertable conditions from poll results.
//
// Detection is independent of the health checks: the thresholds overlap but
// the comparisons and semantics differ, and neither consults the other's
// output. Every cycle is evaluated from scratch; there is no suppression or
// correlation with earlier cycles.
package alert

import (
	"fmt"
	"time"

	"github.com/minerops/rigwatch/pkg/types"
)

// Detect returns the ordered list of alerts for one poll's data, each
// stamped with the capture time ts.
//
// When the status is missing or the API reports success=false, the single
// "API not responding" critical alert is returned and no further checks run
// for the cycle.
//
// The pool check is deliberately asymmetric: an empty or unavailable pool
// list is skipped, only a non-empty list with no connected entry alarms.
func Detect(ts time.Time, status *types.Status, devices []types.DeviceInfo, pools []types.PoolInfo, thr types.Thresholds) []types.Alert {
	if status == nil || !status.Success {
		return []types.Alert{types.Critical(ts, "API not responding")}
	}

	var alerts []types.Alert
	data := status.Data

	if data.MiningState != types.MiningStateRunning {
		alerts = append(alerts, types.Critical(ts,
			fmt.Sprintf("Mining not active: %s", data.MiningState)))
	}

	if data.TotalHashrate < thr.MinTotalHashrate {
		alerts = append(alerts, types.Warning(ts,
			fmt.Sprintf("Low total hashrate: %.1f GH/s", data.TotalHashrate)))
	}

	if data.HardwareErrors > thr.MaxHardwareErrors {
		alerts = append(alerts, types.Warning(ts,
			fmt.Sprintf("High hardware errors: %d", data.HardwareErrors)))
	}

	for _, dev := range devices {
		if dev.Temperature != nil && *dev.Temperature > thr.MaxDeviceTemp {
			alerts = append(alerts, types.Critical(ts,
				fmt.Sprintf("Device %d high temperature: %.1f°C", dev.DeviceID, *dev.Temperature)))
		}

		// An absent hashrate decodes as 0 and alarms as well.
		if dev.Hashrate < thr.MinDeviceHashrate {
			alerts = append(alerts, types.Warning(ts,
				fmt.Sprintf("Device %d low hashrate: %.1f GH/s", dev.DeviceID, dev.Hashrate)))
		}

		if dev.Status != types.DeviceStatusMining {
			alerts = append(alerts, types.Critical(ts,
				fmt.Sprintf("Device %d not mining: %s", dev.DeviceID, dev.Status)))
		}
	}

	if len(pools) > 0 {
		connected := 0
		for _, pool := range pools {
			if pool.Status == types.PoolStatusConnected {
				connected++
			}
		}
		if connected == 0 {
			alerts = append(alerts, types.Critical(ts, "No pools connected"))
		}
	}

	return alerts
}
