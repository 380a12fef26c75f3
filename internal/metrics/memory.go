package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	NumGoroutine int    // live goroutines, including probe workers still running
}

// Delta returns the growth from prev to s. Counters that can only increase
// are differenced; gauges report the later reading.
func (s MemorySnapshot) Delta(prev MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:    s.HeapAlloc,
		HeapSys:      s.HeapSys,
		Sys:          s.Sys,
		NumGC:        s.NumGC - prev.NumGC,
		PauseTotalNs: s.PauseTotalNs - prev.PauseTotalNs,
		NumGoroutine: s.NumGoroutine,
	}
}

// MemoryCollector reads runtime memory statistics around a search so the
// verbose report can show the GC cost of the probes.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
	}
}
