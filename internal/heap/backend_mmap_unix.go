//go:build unix

package heap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapArea backs a heap region with an anonymous private mapping, grounded
// on the mmap-reserved-region idiom used for guest memory in
// other_examples' userfaultfd-backed VM allocator. Reserving the full
// capacity once (rather than growing it call-by-call) is what lets a
// segmented heap's straddling allocations address contiguous host memory
// even though individual segments attach to the free list independently;
// see DESIGN.md's segment-backing decision.
type mmapArea struct {
	buf []byte
}

func newBackingArea(size uint32) (area, error) {
	if size == 0 {
		return nil, fmt.Errorf("heap: area size must be > 0")
	}

	buf, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("heap: mmap %d bytes: %w", size, err)
	}

	return &mmapArea{buf: buf}, nil
}

func (a *mmapArea) bytes() []byte { return a.buf }

func (a *mmapArea) base() unsafe.Pointer {
	return unsafe.Pointer(&a.buf[0])
}

func (a *mmapArea) release() error {
	if a.buf == nil {
		return nil
	}

	err := unix.Munmap(a.buf)
	a.buf = nil

	return err
}
