package genarena

import "math"

// Generation tags a slot's current incarnation. It advances every time a
// slot transitions from empty to occupied or is explicitly invalidated,
// and never decreases. The zero value is reserved as an invalid sentinel
// and is never observable on a live slot.
type Generation uint32

// firstGeneration is assigned to a slot the first time it is occupied.
const firstGeneration Generation = 1

// Next returns the following generation. At the maximum representable
// value it wraps around to 1 instead of overflowing; after 2^32 - 1
// reuses of one slot, stale handles from the previous cycle can collide
// with live ones. That bounded risk is accepted so a slot never becomes
// permanently unusable.
func (g Generation) Next() Generation {
	if g == math.MaxUint32 {
		return firstGeneration
	}
	return g + 1
}

// Uint32 returns the generation as a plain integer for serialization.
func (g Generation) Uint32() uint32 { return uint32(g) }

// GenerationFromUint32 converts a serialized generation back to a
// Generation. It returns ErrZeroGeneration for zero, which cannot have
// been produced by a live arena.
func GenerationFromUint32(v uint32) (Generation, error) {
	if v == 0 {
		return 0, ErrZeroGeneration
	}
	return Generation(v), nil
}
