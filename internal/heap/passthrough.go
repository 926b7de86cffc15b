package heap

import "unsafe"

// passthroughHeap is C7: the system and dynamic-emulation backends. Both
// delegate the actual bytes to the host allocator (Go's own make, standing
// in for the embedding runtime's malloc/free) and layer spec.md §4.4's
// per-block metadata accounting on top, the way the teacher's
// SystemAllocatorImpl layers AllocationInfo bookkeeping over a plain
// make([]byte) in internal/allocator/allocator.go.
//
// Pointers handed to callers are never compressible into a segment-relative
// offset the way the region backends' are (there is no shared base), so
// Compress/Decompress here hand out indices into a small handle table
// instead of truncating an address — the offset stays exact and round-trips,
// it just isn't derived from pointer arithmetic.
type passthroughHeap struct {
	cfg   *Config
	stats Stats

	blocks map[uintptr]*trackedBlock

	handles     []unsafe.Pointer
	freeHandles []uint32

	// slabs backs AllocSmall/FreeSmall on the dynamic-emulation backend
	// when SlabSmallBlocks is set: one bump arena per requested size
	// class, keyed by align_up(requested, SysAlign).
	slabs map[uint32]*dynamicArena
}

type trackedBlock struct {
	buf        []byte
	meta       uint32
	heapSize   uint32 // align_up(requested+meta, SysAlign): what AllocatedHeapSize was charged
	handle     uint32
	hasSlot    bool
	fromArena  bool
	arenaClass uint32
}

func newPassthroughHeap(cfg *Config) *passthroughHeap {
	h := &passthroughHeap{
		cfg:    cfg,
		blocks: make(map[uintptr]*trackedBlock),
	}
	h.stats.HeapLimit = cfg.DesiredLimit

	return h
}

// metaFor returns the per-block overhead this allocation is charged under
// spec.md §4.4: SlabSmallBlocks exempts small requests on the
// dynamic-emulation backend only, never on BackendSystem.
func (h *passthroughHeap) metaFor(small bool) uint32 {
	if small && h.cfg.Backend == BackendDynamicEmul && h.cfg.SlabSmallBlocks {
		return 0
	}

	return h.cfg.Meta
}

// usesSlab reports whether this request should be carved out of a
// dynamicArena rather than handed to the host allocator: only small
// requests, only on the dynamic-emulation backend, only with the slab
// flag enabled.
func (h *passthroughHeap) usesSlab(small bool) bool {
	return small && h.cfg.Backend == BackendDynamicEmul && h.cfg.SlabSmallBlocks
}

func (h *passthroughHeap) tryAlloc(requested uint32, small bool) (unsafe.Pointer, bool) {
	meta := h.metaFor(small)
	// align_up(size + META, SYS_ALIGN) per spec.md §4.7: the host-bytes
	// figure AllocatedHeapSize tracks, distinct from BlocksSize below.
	heapSize := alignUp(requested+meta, h.cfg.SysAlign)

	var ptr unsafe.Pointer

	blk := &trackedBlock{meta: meta, heapSize: heapSize}

	if h.usesSlab(small) {
		classSize := alignUp(requested, h.cfg.SysAlign)
		arena := h.slabArenaFor(classSize)
		ptr = arena.alloc()
		blk.fromArena = true
		blk.arenaClass = classSize
	} else {
		buf := make([]byte, heapSize)
		ptr = unsafe.Pointer(&buf[0])
		blk.buf = buf
	}

	h.blocks[uintptr(ptr)] = blk

	// blocks_size is the logical, unaligned request total (spec.md
	// §4.7); it is what the GC-and-alloc retry ladder's budget/limit
	// comparisons are scaled against, the same as the region backends'
	// BlocksSize.
	h.stats.recordAlloc(requested, heapSize)
	h.stats.BlocksSize += requested
	h.stats.AllocatedBlocksCount++
	h.stats.AllocatedHeapSize += uint64(heapSize)
	h.stats.SystemMetadataSize += uint64(meta)

	for h.stats.HeapLimit <= h.stats.BlocksSize {
		h.stats.HeapLimit += h.cfg.DesiredLimit
	}

	return ptr, true
}

func (h *passthroughHeap) tryFree(ptr unsafe.Pointer, requested uint32, _ bool) {
	key := uintptr(ptr)

	blk, ok := h.blocks[key]
	if !ok {
		return
	}

	delete(h.blocks, key)

	if blk.hasSlot {
		h.handles[blk.handle] = nil
		h.freeHandles = append(h.freeHandles, blk.handle)
	}

	if blk.fromArena {
		h.slabArenaFor(blk.arenaClass).release(ptr)
	}

	h.stats.recordFree(requested, blk.heapSize)
	h.stats.BlocksSize -= requested
	h.stats.AllocatedBlocksCount--
	h.stats.AllocatedHeapSize -= uint64(blk.heapSize)
	h.stats.SystemMetadataSize -= uint64(blk.meta)

	for h.stats.HeapLimit > h.cfg.DesiredLimit &&
		h.stats.HeapLimit-h.cfg.DesiredLimit >= h.stats.BlocksSize {
		h.stats.HeapLimit -= h.cfg.DesiredLimit
	}
}

func (h *passthroughHeap) slabArenaFor(classSize uint32) *dynamicArena {
	if h.slabs == nil {
		h.slabs = make(map[uint32]*dynamicArena)
	}

	a, ok := h.slabs[classSize]
	if !ok {
		a = newDynamicArena(classSize)
		h.slabs[classSize] = a
	}

	return a
}

// budget mirrors regionHeap.budget: blocks_size plus the request, in raw,
// unaligned request bytes, the same unit limit() is stepped in. It does not
// include SysAlign rounding or metadata overhead; absoluteSize(), which the
// GC loop compares it against under LazyGC, does include both.
func (h *passthroughHeap) budget(additional uint32) uint64 {
	return uint64(h.stats.BlocksSize) + uint64(additional)
}

func (h *passthroughHeap) limit() uint64 {
	return uint64(h.stats.HeapLimit)
}

// absoluteSize is allocated_heap_size alone: it already has META folded
// into its align_up(size+META, SYS_ALIGN) rounding, so adding
// SystemMetadataSize on top would double-count the per-block overhead.
func (h *passthroughHeap) absoluteSize() uint64 {
	return h.stats.AllocatedHeapSize
}

// acquireMore never applies to a host-allocator passthrough: there is no
// segment table to grow, and tryAlloc either succeeds immediately or the
// host is genuinely out of memory.
func (h *passthroughHeap) acquireMore(uint32) bool {
	return false
}

func (h *passthroughHeap) compress(ptr unsafe.Pointer) uint32 {
	blk, ok := h.blocks[uintptr(ptr)]
	if !ok {
		return uint32(endOfList)
	}

	if blk.hasSlot {
		return blk.handle
	}

	var idx uint32

	if n := len(h.freeHandles); n > 0 {
		idx = h.freeHandles[n-1]
		h.freeHandles = h.freeHandles[:n-1]
		h.handles[idx] = ptr
	} else {
		idx = uint32(len(h.handles))
		h.handles = append(h.handles, ptr)
	}

	blk.hasSlot = true
	blk.handle = idx

	return idx
}

func (h *passthroughHeap) decompress(o uint32) unsafe.Pointer {
	if int(o) >= len(h.handles) {
		return nil
	}

	return h.handles[o]
}

func (h *passthroughHeap) isHeapPointer(ptr unsafe.Pointer) bool {
	_, ok := h.blocks[uintptr(ptr)]

	return ok
}

func (h *passthroughHeap) statsSnapshot() Stats {
	return h.stats.snapshot()
}

func (h *passthroughHeap) finalize() error {
	if len(h.blocks) != 0 {
		return newHeapError("finalize", KindInvariantBreach, errHeapNotEmpty)
	}

	return nil
}
