//go:build !unix

package heap

import (
	"fmt"
	"runtime"
	"unsafe"
)

// genericArea backs a heap region with a plain Go slice. Used on build
// targets without golang.org/x/sys/unix mmap support; the teacher's
// dependency can't reach a portable non-unix mmap, so this one corner
// falls back to the standard library (documented in DESIGN.md).
type genericArea struct {
	buf []byte
}

func newBackingArea(size uint32) (area, error) {
	if size == 0 {
		return nil, fmt.Errorf("heap: area size must be > 0")
	}

	buf := make([]byte, size)
	runtime.KeepAlive(buf)

	return &genericArea{buf: buf}, nil
}

func (a *genericArea) bytes() []byte { return a.buf }

func (a *genericArea) base() unsafe.Pointer {
	return unsafe.Pointer(&a.buf[0])
}

func (a *genericArea) release() error {
	a.buf = nil

	return nil
}
