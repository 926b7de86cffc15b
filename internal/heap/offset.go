package heap

import "unsafe"

// offset is a compressed, 32-bit pointer: an index into the logical heap
// address space. Per spec.md's design notes, a single implementation picks
// one sentinel representation instead of preserving both END_OF_LIST forms
// the original engine carried; see DESIGN.md.
type offset uint32

// endOfList terminates the free list. UINT32_MAX can never be a legal
// offset: the area capacity is itself a uint32, so the highest offset
// inside it is at most 1<<32 - 2. Neither AreaSize nor SegSize*SegCount is
// range-checked, and the product is not checked for overflow.
const endOfList offset = offset(^uint32(0))

// addressSpace is C1, generalized across backends: it converts between a
// live pointer inside the heap and a compressed offset. The static and
// segmented backends share a single contiguous area, so both compress and
// decompress reduce to base-pointer arithmetic. The system/dynamic-emul
// backends never call into this type: passthroughHeap compresses a pointer
// into an index of its own handle table, not by the identity.
type addressSpace struct {
	area     area
	capacity uint32
}

func newAddressSpace(a area, capacity uint32) *addressSpace {
	return &addressSpace{area: a, capacity: capacity}
}

// compress returns p's offset from the area base. p must lie within the
// area and be alignment-aligned; callers are trusted (this is the hot
// allocate/free path, not a validation boundary).
func (s *addressSpace) compress(p unsafe.Pointer) offset {
	return offset(uintptr(p) - uintptr(s.area.base()))
}

func (s *addressSpace) decompress(o offset) unsafe.Pointer {
	return ptrAdd(s.area.base(), uintptr(o))
}

func (s *addressSpace) contains(p unsafe.Pointer) bool {
	return ptrWithin(p, s.area.base(), uintptr(s.capacity))
}

// segmentIndex identifies the segment owning a compressed offset by
// integer division, per spec.md §4.1.
func segmentIndex(o offset, segSize uint32) uint32 {
	return uint32(o) / segSize
}
