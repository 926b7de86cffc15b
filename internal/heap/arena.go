package heap

import "unsafe"

// arenaState is a saved bump cursor, adapted from the teacher's
// ArenaAllocatorImpl.SaveState/RestoreState: capturing (chunk index,
// offset) lets a caller roll the cursor back without touching the
// chunks slice itself.
type arenaState struct {
	chunk  int
	offset uint32
}

// dynamicArena is a bump-pointer allocator over classSize-sized slots,
// adapted from the teacher's ArenaAllocatorImpl: a flat []byte buffer and
// a monotonically advancing cursor, growing by a fresh chunk instead of
// failing once the current one is exhausted (the teacher's arena has a
// fixed size and returns nil on overflow; this one is meant to back an
// unbounded run of same-size slab allocations, so it chains chunks).
//
// The one place this departs from the teacher's pure bump-pointer model
// is release: ArenaAllocatorImpl.Free is a no-op ("memory is only freed
// when the arena is reset"), but a slab allocator's entire purpose is
// per-slot reuse, so release pushes the slot onto a free list instead of
// leaving it to Reset.
type dynamicArena struct {
	classSize uint32
	chunkSize uint32

	chunks []arenaChunk
	cursor arenaState

	free []unsafe.Pointer
}

type arenaChunk struct {
	buf []byte
}

// slotsPerChunk bounds how many size-classed slots one backing []byte
// covers before the arena bumps to a fresh chunk, the same trade-off the
// teacher's Config.ArenaSize makes at a coarser grain.
const slotsPerChunk = 64

func newDynamicArena(classSize uint32) *dynamicArena {
	return &dynamicArena{
		classSize: classSize,
		chunkSize: classSize * slotsPerChunk,
	}
}

// alloc returns a classSize-aligned slot: a reused one if release left any
// behind, otherwise the next bump-pointer slot, growing by a fresh chunk
// when the current one is full (ArenaAllocatorImpl.Alloc's "current +
// alignedSize > size" check, generalized to chain chunks instead of
// failing).
func (a *dynamicArena) alloc() unsafe.Pointer {
	if n := len(a.free); n > 0 {
		p := a.free[n-1]
		a.free = a.free[:n-1]

		return p
	}

	if len(a.chunks) == 0 || a.cursor.offset+a.classSize > a.chunkSize {
		a.chunks = append(a.chunks, arenaChunk{buf: make([]byte, a.chunkSize)})
		a.cursor = arenaState{chunk: len(a.chunks) - 1, offset: 0}
	}

	chunk := a.chunks[a.cursor.chunk].buf
	ptr := unsafe.Pointer(&chunk[a.cursor.offset])
	a.cursor.offset += a.classSize

	return ptr
}

// release returns a slot to the free list for reuse by a later alloc.
func (a *dynamicArena) release(ptr unsafe.Pointer) {
	a.free = append(a.free, ptr)
}

// saveState snapshots the bump cursor, mirroring
// ArenaAllocatorImpl.SaveState; restoreState rewinds to it, discarding
// every slot bumped since (but not reused ones already on the free list,
// which stay valid regardless of cursor position).
func (a *dynamicArena) saveState() arenaState {
	return a.cursor
}

func (a *dynamicArena) restoreState(s arenaState) {
	a.cursor = s
}

// owns reports whether ptr was handed out by one of this arena's chunks.
func (a *dynamicArena) owns(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)

	for _, c := range a.chunks {
		if len(c.buf) == 0 {
			continue
		}

		base := uintptr(unsafe.Pointer(&c.buf[0]))
		if addr >= base && addr < base+uintptr(len(c.buf)) {
			return true
		}
	}

	return false
}
