package heap

// freeNodeHeader is the intrusive header written into the first A bytes of
// every free region. Handing the region to a caller overwrites it, which
// is exactly the point: a free region's first A bytes have no other use.
type freeNodeHeader struct {
	size uint32
	next offset
}

const freeNodeHeaderSize = 8

// freeList is C2: an address-ordered, singly-linked, offset-compressed
// free list plus its skip-pointer acceleration. The sentinel ("first") is
// modeled as the pair (skipAtHead-style bool, firstNext) rather than a
// zero-size node physically written into the area — it never needs a real
// address since nothing ever points *at* it.
type freeList struct {
	space     *addressSpace
	alignment uint32
	stats     *Stats

	firstNext offset // sentinel.next_offset

	// skip_p, represented as either "&first" (skipAtHead) or a real
	// offset into the list (skipOff).
	skipAtHead bool
	skipOff    offset
}

func newFreeList(space *addressSpace, alignment uint32, stats *Stats) *freeList {
	return &freeList{
		space:      space,
		alignment:  alignment,
		stats:      stats,
		firstNext:  endOfList,
		skipAtHead: true,
	}
}

// reset installs a single free region spanning [base, base+size), as init
// and the idempotent-init law require.
func (fl *freeList) reset(base offset, size uint32) {
	fl.writeNode(base, size, endOfList)
	fl.firstNext = base
	fl.skipAtHead = true
}

func (fl *freeList) readNode(o offset) (size uint32, next offset) {
	hdr := (*freeNodeHeader)(fl.space.decompress(o))

	return hdr.size, hdr.next
}

func (fl *freeList) writeNode(o offset, size uint32, next offset) {
	hdr := (*freeNodeHeader)(fl.space.decompress(o))
	hdr.size = size
	hdr.next = next
}

func (fl *freeList) writeNodeNext(o offset, next offset) {
	hdr := (*freeNodeHeader)(fl.space.decompress(o))
	hdr.next = next
}

// empty reports whether the list holds no free regions at all.
func (fl *freeList) empty() bool {
	return fl.firstNext == endOfList
}

// demoteSkipIfStale resets skip_p to the sentinel if it currently refers
// to the node at o — called whenever a mutation might otherwise leave it
// dangling. This is the always-safe fallback the design notes call out:
// "any list mutation must either set it to a known-valid predecessor or
// to the sentinel".
func (fl *freeList) demoteSkipIfStale(o offset) {
	if !fl.skipAtHead && fl.skipOff == o {
		fl.skipAtHead = true
	}
}

// allocate implements C2's first-fit allocate with the A-sized fast path.
// It returns the region's starting offset and true, or false if no region
// is large enough.
func (fl *freeList) allocate(need uint32) (offset, bool) {
	if need == fl.alignment && fl.firstNext != endOfList {
		return fl.allocateFast(), true
	}

	return fl.allocateSlow(need)
}

func (fl *freeList) allocateFast() offset {
	matchOff := fl.firstNext
	size, next := fl.readNode(matchOff)
	fl.stats.AllocIterCount++

	if size == fl.alignment {
		fl.firstNext = next
	} else {
		residual := offset(uint32(matchOff) + fl.alignment)
		fl.writeNode(residual, size-fl.alignment, next)
		fl.firstNext = residual
	}

	fl.demoteSkipIfStale(matchOff)

	return matchOff
}

func (fl *freeList) allocateSlow(need uint32) (offset, bool) {
	prevIsHead := true
	var prevOff offset

	cur := fl.firstNext
	for cur != endOfList {
		size, next := fl.readNode(cur)
		fl.stats.AllocIterCount++

		if size >= need {
			if size > need {
				residual := offset(uint32(cur) + need)
				fl.writeNode(residual, size-need, next)
				fl.link(prevIsHead, prevOff, residual)
			} else {
				fl.link(prevIsHead, prevOff, next)
			}

			fl.skipAtHead = prevIsHead
			fl.skipOff = prevOff

			return cur, true
		}

		prevIsHead = false
		prevOff = cur
		cur = next
	}

	return 0, false
}

func (fl *freeList) link(atHead bool, prevOff offset, next offset) {
	if atHead {
		fl.firstNext = next
	} else {
		fl.writeNodeNext(prevOff, next)
	}
}

func (fl *freeList) nextAfter(atHead bool, o offset) offset {
	if atHead {
		return fl.firstNext
	}

	_, next := fl.readNode(o)

	return next
}

// free implements C2's coalescing, skip-accelerated ordered insert.
// aligned must already be alignUp(requestedSize, A).
func (fl *freeList) free(ptrOff offset, aligned uint32) {
	prevIsHead := true
	var prevOff offset

	if !fl.skipAtHead && ptrOff > fl.skipOff {
		prevIsHead = false
		prevOff = fl.skipOff
		fl.stats.SkipCount++
	} else {
		fl.stats.NonskipCount++
	}

	cur := fl.nextAfter(prevIsHead, prevOff)
	for cur != endOfList && cur < ptrOff {
		fl.stats.FreeIterCount++
		prevIsHead = false
		prevOff = cur
		cur = fl.nextAfter(false, cur)
	}

	next := cur

	mergeWithPrev := false
	var prevSize uint32

	if !prevIsHead {
		prevSize, _ = fl.readNode(prevOff)

		mergeWithPrev = uint32(prevOff)+prevSize == uint32(ptrOff)
	}

	mergedStart := ptrOff
	mergedSize := aligned

	if mergeWithPrev {
		mergedStart = prevOff
		mergedSize = prevSize + aligned
	}

	finalNext := next

	if next != endOfList && uint32(mergedStart)+mergedSize == uint32(next) {
		nextSize, nextNext := fl.readNode(next)
		mergedSize += nextSize
		finalNext = nextNext
	}

	fl.writeNode(mergedStart, mergedSize, finalNext)

	if !mergeWithPrev {
		fl.link(prevIsHead, prevOff, mergedStart)
	}

	fl.skipAtHead = prevIsHead
	fl.skipOff = prevOff
}

// headerSize reports A, the header footprint every free region reserves.
func (fl *freeList) headerSize() uint32 {
	return fl.alignment
}

// shrinkTail removes [segStart, frontierEnd) from the tail of the free
// list, used when a segment's occupancy has dropped back to zero and the
// segment table wants to deactivate it (spec.md §4.3's optional release
// clause). It returns false if the tail free region doesn't exactly cover
// (or extend past the start of) that range, in which case the caller
// leaves the segment active.
func (fl *freeList) shrinkTail(segStart, frontierEnd offset) bool {
	if fl.firstNext == endOfList {
		return false
	}

	prevIsHead := true

	var prevOff offset

	cur := fl.firstNext

	for {
		size, next := fl.readNode(cur)
		if next != endOfList {
			prevIsHead = false
			prevOff = cur
			cur = next

			continue
		}

		end := offset(uint32(cur) + size)
		if end != frontierEnd || cur > segStart {
			return false
		}

		if cur == segStart {
			fl.link(prevIsHead, prevOff, endOfList)
		} else {
			fl.writeNode(cur, size-uint32(frontierEnd-segStart), endOfList)
		}

		fl.demoteSkipIfStale(cur)

		return true
	}
}
