package heap

import "testing"

func newTestFreeList(t *testing.T, capacity uint32) (*freeList, *addressSpace, func()) {
	t.Helper()

	a, err := newBackingArea(capacity)
	if err != nil {
		t.Fatalf("newBackingArea: %v", err)
	}

	space := newAddressSpace(a, capacity)
	stats := &Stats{}
	fl := newFreeList(space, 8, stats)
	fl.reset(0, capacity)

	return fl, space, func() { a.release() }
}

func TestFreeListAllocateFreeRoundTrip(t *testing.T) {
	fl, _, cleanup := newTestFreeList(t, 256)
	defer cleanup()

	t.Run("AllocateExhaustsThenFails", func(t *testing.T) {
		off, ok := fl.allocate(256)
		if !ok {
			t.Fatal("expected allocation of the entire region to succeed")
		}

		if off != 0 {
			t.Errorf("first allocation should start at offset 0, got %d", off)
		}

		if _, ok := fl.allocate(8); ok {
			t.Error("allocation should fail once the list is exhausted")
		}

		fl.free(0, 256)

		if fl.empty() {
			t.Error("list should not be empty after returning the region")
		}
	})
}

func TestFreeListCoalescesAdjacentRegions(t *testing.T) {
	fl, _, cleanup := newTestFreeList(t, 64)
	defer cleanup()

	a, ok1 := fl.allocate(16)
	b, ok2 := fl.allocate(16)
	c, ok3 := fl.allocate(16)

	if !ok1 || !ok2 || !ok3 {
		t.Fatal("setup allocations failed")
	}

	// Free out of address order; coalescing must still merge all three
	// plus the untouched tail into one region.
	fl.free(b, 16)
	fl.free(a, 16)
	fl.free(c, 16)

	size, next := fl.readNode(0)
	if next != endOfList {
		t.Errorf("expected a single coalesced region, got a second node at %d", next)
	}

	if size != 64 {
		t.Errorf("coalesced region size = %d, want 64 (full capacity)", size)
	}
}

func TestFreeListSkipAcceleration(t *testing.T) {
	fl, _, cleanup := newTestFreeList(t, 128)
	defer cleanup()

	// Carve out eight 16-byte blocks, free every other one so the list has
	// alternating free/allocated regions, then free an address-ordered run
	// and confirm skip_p accelerates instead of restarting from the head.
	offs := make([]offset, 0, 8)

	for i := 0; i < 8; i++ {
		o, ok := fl.allocate(16)
		if !ok {
			t.Fatalf("allocation %d failed", i)
		}

		offs = append(offs, o)
	}

	fl.free(offs[0], 16)
	fl.free(offs[2], 16)
	fl.free(offs[4], 16)

	before := fl.stats.SkipCount

	fl.free(offs[6], 16)

	if fl.stats.SkipCount <= before {
		t.Error("expected free() of an address past skip_p to record a skip")
	}
}

func TestFreeListShrinkTail(t *testing.T) {
	fl, _, cleanup := newTestFreeList(t, 64)
	defer cleanup()

	if !fl.shrinkTail(0, 64) {
		t.Fatal("expected the whole free region to be removable")
	}

	if !fl.empty() {
		t.Error("list should be empty after shrinking away its only region")
	}
}
