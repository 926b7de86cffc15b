package heap

// NewSystemHeap builds a Heap that delegates every block to the host
// allocator with full per-block metadata accounting and no slab exemption
// (BackendSystem). SlabSmallBlocks is ignored on this backend by
// construction: metaFor only exempts small blocks under BackendDynamicEmul.
func NewSystemHeap(opts ...Option) Heap {
	cfg := newConfig(append([]Option{}, opts...)...)
	cfg.Backend = BackendSystem

	core := newPassthroughHeap(cfg)

	return &heapImpl{engine: newGCEngine(core, cfg)}
}
