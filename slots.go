package genarena

import (
	"fmt"
	"math"
)

// Slot is one storage position of an arena in serialized form: the slot's
// generation plus its value, or nil for an empty slot. Empty slots are
// carried so that generation counters and free-list topology survive a
// round trip.
type Slot[T any] struct {
	Generation Generation `json:"generation"`
	Value      *T         `json:"value"`
}

// Slots returns the arena's full slot sequence in ascending slot order,
// including empty slots. Values are copied; the returned records do not
// alias the arena's storage.
func (a *Arena[T]) Slots() []Slot[T] {
	slots := make([]Slot[T], len(a.storage))
	for i := range a.storage {
		e := &a.storage[i]
		slots[i].Generation = e.generation
		if e.occupied {
			value := e.value
			slots[i].Value = &value
		}
	}
	return slots
}

// FromSlots rebuilds an arena from a slot sequence produced by Slots (or
// decoded from a persisted snapshot). Slots are reconstructed in order
// and every empty slot is threaded back onto the free list, so
// FromSlots(a.Slots()) reproduces a's slot layout, generations and
// length. The free list is rebuilt in ascending slot order, so the
// restored arena reuses the highest-numbered empty slot first regardless
// of the original removal order.
//
// A zero generation anywhere in the sequence fails with an error wrapping
// ErrZeroGeneration; no partial arena is returned.
func FromSlots[T any](slots []Slot[T]) (*Arena[T], error) {
	if uint64(len(slots)) > math.MaxUint32 {
		return nil, fmt.Errorf("genarena: %d slots exceed the 32-bit slot space", len(slots))
	}
	a := NewWithCapacity[T](len(slots))
	for i := range slots {
		if slots[i].Generation == 0 {
			return nil, fmt.Errorf("genarena: slot %d: %w", i, ErrZeroGeneration)
		}
		a.pushSlot(slots[i].Generation, slots[i].Value)
	}
	return a, nil
}

// pushSlot appends one reconstructed slot. Empty slots are pushed onto
// the free list head as they appear, in ascending slot order.
func (a *Arena[T]) pushSlot(gen Generation, value *T) {
	slot := uint32(len(a.storage))
	if value != nil {
		a.storage = append(a.storage, entry[T]{value: *value, generation: gen, occupied: true})
		a.count++
		return
	}
	a.storage = append(a.storage, entry[T]{generation: gen, nextFree: a.firstFree})
	a.firstFree = freePointerTo(slot)
}
