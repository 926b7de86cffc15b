package heap

import "fmt"

// CheckInvariants walks a Heap's internal state and returns the first
// violated invariant from spec.md §8, or nil if none are found. It only
// works on region-backed heaps (static/segmented): passthrough backends
// have no free list or segment table to walk, so CheckInvariants is a no-op
// for them. This mirrors the teacher's debug-only assertion style in
// internal/types/safe_error_handling.go — a harness called from tests and
// from debug builds, not from the hot path.
func CheckInvariants(h Heap) error {
	impl, ok := h.(*heapImpl)
	if !ok {
		return nil
	}

	core, ok := impl.engine.core.(*regionHeap)
	if !ok {
		return nil
	}

	if err := checkFreeListOrdering(core.fl); err != nil {
		return err
	}

	if err := checkFreeRegionSizes(core.fl); err != nil {
		return err
	}

	if err := checkSegmentOccupancy(core); err != nil {
		return err
	}

	if err := checkSkipPointer(core.fl); err != nil {
		return err
	}

	return nil
}

// checkFreeListOrdering walks the list once and asserts addresses strictly
// increase and no two regions are adjacent (adjacent free regions must
// already have been coalesced by C2's free()).
func checkFreeListOrdering(fl *freeList) error {
	prevEnd := offset(0)
	hasPrev := false

	cur := fl.firstNext
	for cur != endOfList {
		size, next := fl.readNode(cur)

		if hasPrev && uint32(prevEnd) == uint32(cur) {
			return fmt.Errorf("heap: adjacent free regions not coalesced at offset %d", cur)
		}

		if hasPrev && uint32(cur) < uint32(prevEnd) {
			return fmt.Errorf("heap: free list out of order or overlapping at offset %d", cur)
		}

		prevEnd = offset(uint32(cur) + size)
		hasPrev = true
		cur = next
	}

	return nil
}

// checkFreeRegionSizes asserts every free region is at least A bytes and a
// multiple of A, per the header-fits/alignment invariant.
func checkFreeRegionSizes(fl *freeList) error {
	cur := fl.firstNext
	for cur != endOfList {
		size, next := fl.readNode(cur)

		if size < fl.alignment || size%fl.alignment != 0 {
			return fmt.Errorf("heap: free region at offset %d has size %d, not a multiple of alignment %d", cur, size, fl.alignment)
		}

		cur = next
	}

	return nil
}

// checkSegmentOccupancy asserts Σ occupied_size across active segments
// equals blocks_size, spec.md §4.3's segment-sum invariant.
func checkSegmentOccupancy(core *regionHeap) error {
	sum := core.segs.occupiedSum()
	if sum != uint64(core.stats.BlocksSize) {
		return fmt.Errorf("heap: segment occupancy sum %d does not match blocks_size %d", sum, core.stats.BlocksSize)
	}

	return nil
}

// checkSkipPointer asserts skip_p, when not the sentinel, names a node that
// is still actually in the list ahead of the matching point it was cached
// for — concretely, that it is either the sentinel or a real free node.
func checkSkipPointer(fl *freeList) error {
	if fl.skipAtHead {
		return nil
	}

	cur := fl.firstNext
	for cur != endOfList {
		if cur == fl.skipOff {
			return nil
		}

		_, next := fl.readNode(cur)
		cur = next
	}

	return fmt.Errorf("heap: skip pointer at offset %d does not name a live free node", fl.skipOff)
}
