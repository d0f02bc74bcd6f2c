package genarena

import (
	"cmp"
	"fmt"
)

// Index is an opaque handle to a value in an Arena, pairing the slot
// number with the generation the slot held when the handle was created.
// Indices are comparable, totally ordered and usable as map keys. A
// handle whose generation is older than its slot's current generation is
// stale and never grants access.
type Index struct {
	slot uint32
	gen  Generation
}

func newIndex(slot uint32, gen Generation) Index {
	return Index{slot: slot, gen: gen}
}

// Slot returns the raw slot number. Slot numbers are reused after
// removal; see the ...BySlot accessors for the implications.
func (i Index) Slot() uint32 { return i.slot }

// Generation returns the generation the handle was created under.
func (i Index) Generation() Generation { return i.gen }

// Bits packs the index losslessly into a uint64: generation in the high
// 32 bits, slot in the low 32 bits. The result is never zero in its high
// 32 bits, since live generations start at 1.
func (i Index) Bits() uint64 {
	return uint64(i.gen)<<32 | uint64(i.slot)
}

// IndexFromBits unpacks an index encoded by Bits. It returns an error
// wrapping ErrZeroGeneration when the generation field decodes to zero,
// since no live index can produce such an encoding.
func IndexFromBits(bits uint64) (Index, error) {
	gen := uint32(bits >> 32)
	if gen == 0 {
		return Index{}, fmt.Errorf("genarena: decode index 0x%016x: %w", bits, ErrZeroGeneration)
	}
	return Index{slot: uint32(bits), gen: Generation(gen)}, nil
}

// Compare orders indices by slot number, then by generation. It returns
// -1, 0 or +1 like cmp.Compare.
func (i Index) Compare(other Index) int {
	if c := cmp.Compare(i.slot, other.slot); c != 0 {
		return c
	}
	return cmp.Compare(i.gen, other.gen)
}

func (i Index) String() string {
	return fmt.Sprintf("Index(slot=%d, generation=%d)", i.slot, i.gen)
}
