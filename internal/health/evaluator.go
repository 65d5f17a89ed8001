// Package health derives the fixed set of boolean health checks from the
// latest poll results.
package health

import "github.com/minerops/rigwatch/pkg/types"

// Evaluate computes all six health checks from a single poll's data. It is a
// pure function: identical inputs always yield the identical report.
//
// devices_healthy and temperature_ok are one computation producing two
// report entries with the same value: both pass iff the device list is
// non-empty and at least the configured fraction of devices is mining below
// the temperature ceiling and above the hashrate floor.
func Evaluate(status *types.Status, devices []types.DeviceInfo, pools []types.PoolInfo, thr types.Thresholds) types.HealthReport {
	var report types.HealthReport

	if status != nil && status.Success {
		report.APIResponsive = true
		data := status.Data
		report.MiningActive = data.MiningState == types.MiningStateRunning
		report.HashrateOK = data.TotalHashrate > thr.MinTotalHashrate
	}

	if len(devices) > 0 {
		healthy := 0
		for _, dev := range devices {
			if deviceHealthy(dev, thr) {
				healthy++
			}
		}
		ok := float64(healthy)/float64(len(devices)) >= thr.HealthyDeviceFraction
		report.DevicesHealthy = ok
		report.TemperatureOK = ok
	}

	for _, pool := range pools {
		if pool.Status == types.PoolStatusConnected {
			report.PoolsConnected = true
			break
		}
	}

	return report
}

// deviceHealthy reports whether a single device passes all device-level
// thresholds. An absent temperature counts as 0 and therefore passes the
// ceiling check.
func deviceHealthy(dev types.DeviceInfo, thr types.Thresholds) bool {
	temp := 0.0
	if dev.Temperature != nil {
		temp = *dev.Temperature
	}
	return dev.Status == types.DeviceStatusMining &&
		temp < thr.MaxDeviceTemp &&
		dev.Hashrate > thr.MinDeviceHashrate
}
