package heap

import (
	"log"
	"unsafe"
)

// gcEngine is C5, the GC-and-alloc retry ladder from spec.md §4.5, driving
// any coreAllocator. It owns the public Heap surface (§6).
type gcEngine struct {
	core coreAllocator
	cfg  *Config

	// insideAlloc is the reentrancy guard spec.md's design notes call
	// for. It is checked on every allocation (there is no separate debug
	// build) and it is not a mutex — the allocator's single-threaded contract (spec.md §5)
	// means nothing but an illegal Alloc-from-inside-a-GC-callback call
	// can ever observe it true.
	insideAlloc bool
}

func newGCEngine(core coreAllocator, cfg *Config) *gcEngine {
	return &gcEngine{core: core, cfg: cfg}
}

func (e *gcEngine) runGC(sev Severity) {
	e.insideAlloc = true
	defer func() { e.insideAlloc = false }()

	e.cfg.GC.RunFreeUnusedMemory(sev)
}

func (e *gcEngine) exceedsThreshold(additional uint32) bool {
	if e.cfg.LazyGC {
		return e.core.budget(additional) > e.core.absoluteSize()
	}

	return e.core.budget(additional) > e.core.limit()
}

// allocInternal implements spec.md §4.5's eight-step algorithm verbatim.
// small is threaded through to tryAlloc unchanged — it only affects
// metadata accounting on the dynamic-emulation backend.
func (e *gcEngine) allocInternal(size uint32, small bool, nullOnError bool) unsafe.Pointer {
	if size == 0 { // 1
		return nil
	}

	if e.insideAlloc {
		panic("heap: Alloc called reentrantly from inside a GC callback")
	}

	if e.cfg.PreGCEachAlloc { // 2
		e.runGC(SeverityHigh)
	}

	if e.exceedsThreshold(size) { // 3
		e.runGC(SeverityLow)
	}

	if ptr, ok := e.core.tryAlloc(size, small); ok { // 4
		return ptr
	}

	if e.core.acquireMore(size) { // 5, segmented only — no-op elsewhere
		ptr, _ := e.core.tryAlloc(size, small)

		return ptr
	}

	for _, sev := range [2]Severity{SeverityLow, SeverityHigh} { // 6
		e.runGC(sev)

		if ptr, ok := e.core.tryAlloc(size, small); ok {
			return ptr
		}
	}

	if e.core.acquireMore(size) { // 7, segmented only
		if ptr, ok := e.core.tryAlloc(size, small); ok {
			return ptr
		}
	}

	if nullOnError { // 8
		return nil
	}

	log.Fatalf("heap: out of memory allocating %d bytes", size)

	return nil
}

func (e *gcEngine) freeInternal(ptr unsafe.Pointer, size uint32, small bool) {
	if ptr == nil || size == 0 {
		return
	}

	e.core.tryFree(ptr, size, small)
}

// Heap is the public surface spec.md §6 describes.
type Heap interface {
	Alloc(size uint32) unsafe.Pointer
	AllocNullOnError(size uint32) unsafe.Pointer
	AllocSmall(size uint32) unsafe.Pointer
	Free(ptr unsafe.Pointer, size uint32)
	FreeSmall(ptr unsafe.Pointer, size uint32)
	IsHeapPointer(ptr unsafe.Pointer) bool
	Compress(ptr unsafe.Pointer) uint32
	Decompress(off uint32) unsafe.Pointer
	StatsSnapshot() Stats
	Finalize() error
}
