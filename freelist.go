package genarena

import "math"

// freePointer references a free slot using a slot+1 encoding so the zero
// value doubles as "no free slot" without a separate flag. It carries no
// semantics beyond linking empty entries into the free list.
type freePointer uint32

// noFreeSlot is the empty free pointer.
const noFreeSlot freePointer = 0

func freePointerTo(slot uint32) freePointer {
	if slot == math.MaxUint32 {
		panic("genarena: slot number overflows free pointer")
	}
	return freePointer(slot + 1)
}

func (p freePointer) slot() uint32 { return uint32(p) - 1 }
