// Package sysmon reports host resources: the hardware threads available to
// this process, which bound the speed-up search, and periodic CPU and memory
// usage snapshots shown while probes run.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// PerCore holds per-logical-CPU utilisation; nil when unavailable.
	PerCore []float64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if cores, err := cpu.Percent(0, true); err == nil && len(cores) > 0 {
		s.PerCore = make([]float64, len(cores))
		for i, c := range cores {
			s.PerCore[i] = clampPercent(c)
		}
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	return s
}

// AvailableThreads returns how many hardware threads this process may run
// on. It prefers the scheduler affinity mask, then the logical CPU count
// reported by the OS, then runtime.NumCPU. The result is at least 1.
func AvailableThreads() int {
	if n, err := affinityCount(); err == nil && n > 0 {
		return n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return max(runtime.NumCPU(), 1)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
