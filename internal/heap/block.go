package heap

import "unsafe"

// coreAllocator is the common surface the GC-and-alloc retry ladder (C5)
// drives. regionHeap (static/segmented) and passthroughHeap
// (system/dynamic-emulation) both implement it, which lets one engine
// type (gcEngine) host the retry ladder for every backend, mirroring the
// teacher's single GlobalAllocator driven by a Config.Backend switch.
type coreAllocator interface {
	// small carries spec.md §4.4's side-channel flag through to backends
	// that care about it (dynamic-emulation); static/segmented ignore it.
	tryAlloc(requested uint32, small bool) (unsafe.Pointer, bool)
	tryFree(ptr unsafe.Pointer, requested uint32, small bool)
	// budget is the projected post-allocation total the GC loop compares
	// against limit (or absoluteSize, under LazyGC).
	budget(additional uint32) uint64
	limit() uint64
	absoluteSize() uint64
	// acquireMore grows the backend's capacity by at least need bytes.
	// Always false for backends that can't grow (static, system).
	acquireMore(need uint32) bool

	compress(ptr unsafe.Pointer) uint32
	decompress(o uint32) unsafe.Pointer
	isHeapPointer(ptr unsafe.Pointer) bool
	statsSnapshot() Stats
	finalize() error
}

// regionHeap implements C4 (Alloc/Free, alignment, heap_limit) over C2
// (free list) and C3 (segment table) for the static and segmented
// backends. The only difference between the two is whether acquireMore
// can ever succeed: the static backend's segment table has exactly one
// segment and never grows.
type regionHeap struct {
	cfg   *Config
	area  area
	space *addressSpace
	segs  *segmentTable
	fl    *freeList
	stats Stats

	growable bool
}

func newRegionHeap(cfg *Config) (*regionHeap, error) {
	if cfg.Alignment < freeNodeHeaderSize {
		return nil, newHeapError("init", KindInvariantBreach,
			errAlignmentTooSmall)
	}

	segSize, segCount := cfg.SegSize, cfg.SegCount
	growable := cfg.Backend == BackendSegmented

	if cfg.Backend == BackendStatic {
		segSize, segCount = cfg.AreaSize, 1
	}

	capacity := segSize * segCount

	a, err := newBackingArea(capacity)
	if err != nil {
		return nil, newHeapError("init", KindOutOfMemory, err)
	}

	h := &regionHeap{
		cfg:      cfg,
		area:     a,
		space:    newAddressSpace(a, capacity),
		segs:     newSegmentTable(segSize, segCount),
		growable: growable,
	}
	h.fl = newFreeList(h.space, cfg.Alignment, &h.stats)
	h.stats.HeapLimit = cfg.DesiredLimit

	start, end, ok := h.segs.activate(1)
	if !ok {
		return nil, newHeapError("init", KindSegmentExhaustion, nil)
	}

	h.fl.reset(start, uint32(end-start))

	return h, nil
}

func (h *regionHeap) tryAlloc(requested uint32, _ bool) (unsafe.Pointer, bool) {
	aligned := alignUp(requested, h.cfg.Alignment)

	off, ok := h.fl.allocate(aligned)
	if !ok {
		return nil, false
	}

	h.stats.recordAlloc(requested, aligned)
	h.stats.BlocksSize += aligned
	h.stats.AllocatedBlocksCount++
	h.segs.updateOccupancy(off, offset(uint32(off)+aligned), int64(aligned))

	for h.stats.HeapLimit <= h.stats.BlocksSize {
		h.stats.HeapLimit += h.cfg.DesiredLimit
	}

	return h.space.decompress(off), true
}

func (h *regionHeap) tryFree(ptr unsafe.Pointer, requested uint32, _ bool) {
	aligned := alignUp(requested, h.cfg.Alignment)
	off := h.space.compress(ptr)

	h.fl.free(off, aligned)
	h.stats.recordFree(requested, aligned)
	h.stats.BlocksSize -= aligned
	h.stats.AllocatedBlocksCount--
	h.segs.updateOccupancy(off, offset(uint32(off)+aligned), -int64(aligned))

	for h.stats.HeapLimit > h.cfg.DesiredLimit &&
		h.stats.HeapLimit-h.cfg.DesiredLimit >= h.stats.BlocksSize {
		h.stats.HeapLimit -= h.cfg.DesiredLimit
	}

	if h.growable {
		h.shrinkTrailingSegment()
	}
}

func (h *regionHeap) shrinkTrailingSegment() {
	for h.segs.frontier > 1 {
		last := h.segs.frontier - 1
		if h.segs.segs[last].occupied != 0 {
			return
		}

		segStart := offset(last * h.segs.segSize)
		frontierEnd := offset(h.segs.frontier * h.segs.segSize)

		if !h.fl.shrinkTail(segStart, frontierEnd) {
			return
		}

		h.segs.segs[last].allocated = false
		h.segs.frontier--
	}
}

func (h *regionHeap) budget(additional uint32) uint64 {
	return uint64(h.stats.BlocksSize) + uint64(additional)
}

func (h *regionHeap) limit() uint64 {
	return uint64(h.stats.HeapLimit)
}

func (h *regionHeap) absoluteSize() uint64 {
	if h.growable {
		return uint64(h.segs.capacity())
	}

	return uint64(h.segs.activeSize())
}

func (h *regionHeap) acquireMore(need uint32) bool {
	if !h.growable {
		return false
	}

	count := segmentsNeeded(need, h.segs.segSize)

	start, end, ok := h.segs.activate(count)
	if !ok {
		return false
	}

	h.fl.free(start, uint32(end-start))

	return true
}

func (h *regionHeap) compress(ptr unsafe.Pointer) uint32 {
	return uint32(h.space.compress(ptr))
}

func (h *regionHeap) decompress(o uint32) unsafe.Pointer {
	return h.space.decompress(offset(o))
}

func (h *regionHeap) isHeapPointer(ptr unsafe.Pointer) bool {
	return h.space.contains(ptr)
}

func (h *regionHeap) statsSnapshot() Stats {
	return h.stats.snapshot()
}

func (h *regionHeap) finalize() error {
	if h.stats.AllocatedBlocksCount != 0 {
		return newHeapError("finalize", KindInvariantBreach, errHeapNotEmpty)
	}

	return h.area.release()
}
