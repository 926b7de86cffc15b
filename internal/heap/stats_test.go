package heap

import "testing"

func TestStatsRecordAllocFree(t *testing.T) {
	var s Stats

	s.recordAlloc(10, 16)

	if s.AllocatedBytes != 16 {
		t.Errorf("AllocatedBytes = %d, want 16", s.AllocatedBytes)
	}

	if s.WasteBytes != 6 {
		t.Errorf("WasteBytes = %d, want 6", s.WasteBytes)
	}

	if s.PeakBytes != 16 {
		t.Errorf("PeakBytes = %d, want 16", s.PeakBytes)
	}

	s.recordAlloc(4, 8)

	if s.PeakBytes != 24 {
		t.Errorf("PeakBytes = %d, want 24 after a second allocation", s.PeakBytes)
	}

	s.recordFree(10, 16)

	if s.AllocatedBytes != 8 {
		t.Errorf("AllocatedBytes after free = %d, want 8", s.AllocatedBytes)
	}

	if s.PeakBytes != 24 {
		t.Error("PeakBytes must not decrease on free")
	}

	if s.AllocCount != 2 || s.FreeCount != 1 {
		t.Errorf("AllocCount=%d FreeCount=%d, want 2/1", s.AllocCount, s.FreeCount)
	}
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	s := &Stats{AllocatedBytes: 100}
	snap := s.snapshot()

	s.AllocatedBytes = 200

	if snap.AllocatedBytes != 100 {
		t.Error("snapshot should not observe mutations made after it was taken")
	}
}
