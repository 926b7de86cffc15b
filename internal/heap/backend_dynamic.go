package heap

// NewDynamicHeap builds a Heap that delegates every block to the host
// allocator (BackendDynamicEmul) like NewSystemHeap, but honors
// SlabSmallBlocks: when set, AllocSmall/FreeSmall skip per-block metadata
// accounting entirely, modeling a slab allocator carved out beside the
// general system heap (spec.md §4.4).
func NewDynamicHeap(opts ...Option) Heap {
	cfg := newConfig(append([]Option{}, opts...)...)
	cfg.Backend = BackendDynamicEmul

	core := newPassthroughHeap(cfg)

	return &heapImpl{engine: newGCEngine(core, cfg)}
}
