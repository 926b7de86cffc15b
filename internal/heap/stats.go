package heap

// Stats is the counter block C6 maintains and StatsSnapshot copies out to
// callers. Field names are the Go-cased forms of the counter names in
// spec.md §3/§4.6.
type Stats struct {
	AllocatedBytes uint64
	WasteBytes     uint64
	PeakBytes      uint64
	AllocCount     uint64
	FreeCount      uint64

	AllocIterCount uint64
	FreeIterCount  uint64
	SkipCount      uint64
	NonskipCount   uint64

	BlocksSize           uint32
	AllocatedBlocksCount uint32
	HeapLimit            uint32

	// Dynamic-emulation / system backends only.
	AllocatedHeapSize  uint64
	SystemMetadataSize uint64
}

// recordAlloc updates every counter C6 tracks for a successful allocation
// of aligned bytes against a caller-requested size.
func (s *Stats) recordAlloc(requested, aligned uint32) {
	s.AllocatedBytes += uint64(aligned)
	s.WasteBytes += uint64(aligned - requested)
	s.AllocCount++

	if s.AllocatedBytes > s.PeakBytes {
		s.PeakBytes = s.AllocatedBytes
	}
}

// recordFree is the inverse of recordAlloc.
func (s *Stats) recordFree(requested, aligned uint32) {
	s.AllocatedBytes -= uint64(aligned)
	s.WasteBytes -= uint64(aligned - requested)
	s.FreeCount++
}

// snapshot returns a copy of the counter block; Stats has no pointer
// fields, so a value copy is a safe, race-free snapshot as long as the
// caller is the allocator's single thread (spec.md §5).
func (s *Stats) snapshot() Stats {
	return *s
}
