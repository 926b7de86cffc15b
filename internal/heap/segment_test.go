package heap

import "testing"

func TestSegmentTableActivate(t *testing.T) {
	st := newSegmentTable(128, 4)

	t.Run("InitialStateHasNoActiveSegments", func(t *testing.T) {
		if st.activeSize() != 0 {
			t.Errorf("activeSize() = %d, want 0", st.activeSize())
		}

		if st.capacity() != 512 {
			t.Errorf("capacity() = %d, want 512", st.capacity())
		}
	})

	t.Run("ActivateGrowsFrontier", func(t *testing.T) {
		start, end, ok := st.activate(2)
		if !ok {
			t.Fatal("activate(2) should succeed against 4 available segments")
		}

		if start != 0 || end != 256 {
			t.Errorf("activate(2) = [%d, %d), want [0, 256)", start, end)
		}

		if st.activeSize() != 256 {
			t.Errorf("activeSize() = %d, want 256", st.activeSize())
		}
	})

	t.Run("ActivateBeyondCapacityFails", func(t *testing.T) {
		if _, _, ok := st.activate(3); ok {
			t.Error("activate(3) should fail: only 2 segments remain")
		}
	})
}

func TestSegmentTableOccupancyStraddlesBoundary(t *testing.T) {
	st := newSegmentTable(128, 4)

	if _, _, ok := st.activate(4); !ok {
		t.Fatal("activate(4) should succeed")
	}

	// An allocation straddling segments 0 and 1 must credit both.
	st.updateOccupancy(100, 160, 60)

	if st.segs[0].occupied != 28 {
		t.Errorf("segment 0 occupied = %d, want 28", st.segs[0].occupied)
	}

	if st.segs[1].occupied != 32 {
		t.Errorf("segment 1 occupied = %d, want 32", st.segs[1].occupied)
	}

	if sum := st.occupiedSum(); sum != 60 {
		t.Errorf("occupiedSum() = %d, want 60", sum)
	}

	st.updateOccupancy(100, 160, -60)

	if sum := st.occupiedSum(); sum != 0 {
		t.Errorf("occupiedSum() after release = %d, want 0", sum)
	}
}

func TestSegmentsNeeded(t *testing.T) {
	cases := []struct{ shortfall, segSize, want uint32 }{
		{1, 128, 1},
		{128, 128, 1},
		{129, 128, 2},
		{256, 128, 2},
	}

	for _, c := range cases {
		if got := segmentsNeeded(c.shortfall, c.segSize); got != c.want {
			t.Errorf("segmentsNeeded(%d, %d) = %d, want %d", c.shortfall, c.segSize, got, c.want)
		}
	}
}

func TestSegmentTableShrinkTrailingIfEmpty(t *testing.T) {
	st := newSegmentTable(128, 4)
	st.activate(3)

	st.updateOccupancy(128, 256, 10) // occupy segment 1 only

	st.shrinkTrailingIfEmpty()

	if st.frontier != 2 {
		t.Errorf("frontier = %d, want 2 (segment 2 is empty and should be released)", st.frontier)
	}

	st.updateOccupancy(128, 256, -10)
	st.shrinkTrailingIfEmpty()

	if st.frontier != 1 {
		t.Errorf("frontier = %d, want 1 (never shrinks below the initial segment)", st.frontier)
	}
}
