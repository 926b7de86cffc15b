package heap

import "testing"

func TestAddressSpaceRoundTrip(t *testing.T) {
	a, err := newBackingArea(256)
	if err != nil {
		t.Fatalf("newBackingArea: %v", err)
	}
	defer a.release()

	space := newAddressSpace(a, 256)

	t.Run("CompressDecompressIdentity", func(t *testing.T) {
		for _, o := range []offset{0, 8, 64, 248} {
			p := space.decompress(o)

			got := space.compress(p)
			if got != o {
				t.Errorf("compress(decompress(%d)) = %d, want %d", o, got, o)
			}
		}
	})

	t.Run("Contains", func(t *testing.T) {
		base := space.decompress(0)
		if !space.contains(base) {
			t.Error("base address should be contained")
		}

		last := space.decompress(255)
		if !space.contains(last) {
			t.Error("last in-range address should be contained")
		}

		past := ptrAdd(base, 256)
		if space.contains(past) {
			t.Error("one-past-the-end address should not be contained")
		}
	})
}

func TestSegmentIndex(t *testing.T) {
	cases := []struct {
		off     offset
		segSize uint32
		want    uint32
	}{
		{0, 128, 0},
		{127, 128, 0},
		{128, 128, 1},
		{300, 128, 2},
	}

	for _, c := range cases {
		if got := segmentIndex(c.off, c.segSize); got != c.want {
			t.Errorf("segmentIndex(%d, %d) = %d, want %d", c.off, c.segSize, got, c.want)
		}
	}
}
