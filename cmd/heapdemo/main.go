// Command heapdemo exercises one heap backend, chosen with --backend, with
// a single pass of eight allocations freed in reverse order, and prints one
// stats snapshot before exiting. It is a smoke test, not a profiler: no
// sampling, no streaming output.
package main

import (
	"flag"
	"fmt"
	"log"
	"unsafe"

	"github.com/orizon-lang/jsheap/internal/heap"
)

func main() {
	backend := flag.String("backend", "static", "backend to exercise: static, segmented, system, dynamic")
	flag.Parse()

	h, err := buildHeap(*backend)
	if err != nil {
		log.Fatalf("heapdemo: %v", err)
	}

	runWorkload(h)

	snap := h.StatsSnapshot()
	fmt.Printf("backend=%s allocated_blocks=%d blocks_size=%d peak_bytes=%d waste_bytes=%d\n",
		*backend, snap.AllocatedBlocksCount, snap.BlocksSize, snap.PeakBytes, snap.WasteBytes)

	if err := h.Finalize(); err != nil {
		log.Fatalf("heapdemo: finalize: %v", err)
	}
}

func buildHeap(name string) (heap.Heap, error) {
	switch name {
	case "static":
		return heap.NewStaticHeap(heap.WithAreaSize(1 << 16))
	case "segmented":
		return heap.NewSegmentedHeap(heap.WithSegment(4096, 16))
	case "system":
		return heap.NewSystemHeap(), nil
	case "dynamic":
		return heap.NewDynamicHeap(heap.WithSlabSmallBlocks(true)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

type liveBlock struct {
	ptr  unsafe.Pointer
	size uint32
}

func runWorkload(h heap.Heap) {
	var live []liveBlock

	for i := 0; i < 8; i++ {
		size := uint32(16 * (i + 1))

		ptr := h.AllocNullOnError(size)
		if ptr == nil {
			log.Printf("heapdemo: allocation of %d bytes failed", size)

			continue
		}

		live = append(live, liveBlock{ptr: ptr, size: size})
	}

	// Free everything in reverse order to exercise the coalescing path on
	// backends that have one.
	for i := len(live) - 1; i >= 0; i-- {
		h.Free(live[i].ptr, live[i].size)
	}
}
