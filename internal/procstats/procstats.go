// Package procstats gathers the agent's own process metrics for status
// logging and reports.
package procstats

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats describes the agent process at a point in time.
type Stats struct {
	CPUPercent float64 `json:"cpu_percent"`
	RSSMB      float64 `json:"rss_mb"`
	Goroutines int     `json:"goroutines"`
}

// Collect returns current process stats. Metrics gopsutil cannot provide on
// this platform are left at zero.
func Collect() Stats {
	stats := Stats{Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		stats.RSSMB = float64(mem.RSS) / 1024 / 1024
	}
	return stats
}
