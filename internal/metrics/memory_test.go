package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.NumGoroutine < 1 {
		t.Error("NumGoroutine should be >= 1")
	}
}

func TestMemorySnapshot_Delta(t *testing.T) {
	t.Parallel()

	before := MemorySnapshot{HeapAlloc: 10, NumGC: 3, PauseTotalNs: 100}
	after := MemorySnapshot{HeapAlloc: 40, NumGC: 5, PauseTotalNs: 250, NumGoroutine: 2}

	d := after.Delta(before)
	if d.NumGC != 2 {
		t.Errorf("NumGC = %d, want 2", d.NumGC)
	}
	if d.PauseTotalNs != 150 {
		t.Errorf("PauseTotalNs = %d, want 150", d.PauseTotalNs)
	}
	if d.HeapAlloc != 40 {
		t.Errorf("HeapAlloc = %d, want the later reading 40", d.HeapAlloc)
	}
}
