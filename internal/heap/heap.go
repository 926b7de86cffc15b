package heap

import "unsafe"

// heapImpl is the concrete Heap: a thin adapter from the public surface
// (spec.md §6) onto gcEngine's retry ladder. Every backend constructor
// builds a coreAllocator and wraps it in one of these; the only thing that
// differs between backends is which coreAllocator gets built.
type heapImpl struct {
	engine *gcEngine
}

func (h *heapImpl) Alloc(size uint32) unsafe.Pointer {
	return h.engine.allocInternal(size, false, false)
}

func (h *heapImpl) AllocNullOnError(size uint32) unsafe.Pointer {
	return h.engine.allocInternal(size, false, true)
}

func (h *heapImpl) AllocSmall(size uint32) unsafe.Pointer {
	return h.engine.allocInternal(size, true, false)
}

func (h *heapImpl) Free(ptr unsafe.Pointer, size uint32) {
	h.engine.freeInternal(ptr, size, false)
}

func (h *heapImpl) FreeSmall(ptr unsafe.Pointer, size uint32) {
	h.engine.freeInternal(ptr, size, true)
}

func (h *heapImpl) IsHeapPointer(ptr unsafe.Pointer) bool {
	return h.engine.core.isHeapPointer(ptr)
}

func (h *heapImpl) Compress(ptr unsafe.Pointer) uint32 {
	return h.engine.core.compress(ptr)
}

func (h *heapImpl) Decompress(off uint32) unsafe.Pointer {
	return h.engine.core.decompress(off)
}

func (h *heapImpl) StatsSnapshot() Stats {
	return h.engine.core.statsSnapshot()
}

func (h *heapImpl) Finalize() error {
	return h.engine.core.finalize()
}
