package heap

// NewSegmentedHeap builds a Heap that grows its logical address space in
// SegSize steps, up to SegCount segments (BackendSegmented). The whole
// SegSize*SegCount range is reserved from the host up front (see
// DESIGN.md's note on segment contiguity); "growing" only ever attaches
// more of that reservation to the free list.
func NewSegmentedHeap(opts ...Option) (Heap, error) {
	cfg := newConfig(append([]Option{}, opts...)...)
	cfg.Backend = BackendSegmented

	core, err := newRegionHeap(cfg)
	if err != nil {
		return nil, err
	}

	return &heapImpl{engine: newGCEngine(core, cfg)}, nil
}
