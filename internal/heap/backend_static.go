package heap

// NewStaticHeap builds a Heap over a single fixed-size area that never
// grows (BackendStatic). acquireMore always fails, so exhausting the free
// list after the GC ladder runs is a hard OOM.
func NewStaticHeap(opts ...Option) (Heap, error) {
	cfg := newConfig(append([]Option{}, opts...)...)
	cfg.Backend = BackendStatic

	core, err := newRegionHeap(cfg)
	if err != nil {
		return nil, err
	}

	return &heapImpl{engine: newGCEngine(core, cfg)}, nil
}
