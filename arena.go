package genarena

import "math"

// entry is a single storage position. occupied selects the variant: an
// occupied entry carries value, an empty entry carries nextFree. The
// generation is meaningful in both states; an empty entry keeps the
// generation of its last occupant, and the next occupant gets its
// successor.
type entry[T any] struct {
	value      T
	generation Generation
	nextFree   freePointer
	occupied   bool
}

// Arena stores values in numbered slots and hands out generational Index
// handles for them. Storage never shrinks on removal: freed slots are
// threaded into a LIFO free list and reused by later insertions, so the
// most recently freed slot is the first one reused.
//
// An Arena must not be mutated concurrently; see the package
// documentation for the ownership model.
type Arena[T any] struct {
	storage   []entry[T]
	count     uint32
	firstFree freePointer
}

// New constructs an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// NewWithCapacity constructs an empty arena with room for capacity
// elements before its storage reallocates.
func NewWithCapacity[T any](capacity int) *Arena[T] {
	return &Arena[T]{storage: make([]entry[T], 0, capacity)}
}

// Len returns the number of values currently in the arena.
func (a *Arena[T]) Len() int { return int(a.count) }

// Cap returns the number of values the arena can hold without
// reallocating, including the values currently in it.
func (a *Arena[T]) Cap() int { return cap(a.storage) }

// Insert adds a value and returns a handle for it. The handle stays valid
// until the value is removed or invalidated.
//
// Insert panics if the arena already holds the maximum of 2^32 - 1
// elements; silently wrapping the slot counter would corrupt the free
// list.
func (a *Arena[T]) Insert(value T) Index {
	if a.count == math.MaxUint32 {
		panic("genarena: cannot insert more than 4294967295 elements")
	}
	a.count++

	// Reuse the most recently freed slot if there is one, advancing its
	// generation so outstanding handles to the previous occupant go stale.
	if a.firstFree != noFreeSlot {
		slot := a.firstFree.slot()
		e := &a.storage[slot]
		if e.occupied {
			panic("genarena: free list points at an occupied slot")
		}
		a.firstFree = e.nextFree
		e.generation = e.generation.Next()
		e.value = value
		e.nextFree = noFreeSlot
		e.occupied = true
		return newIndex(slot, e.generation)
	}

	// No free slots: append a fresh first-generation entry. With an empty
	// free list the storage length equals count, so the overflow check
	// above already bounds the new slot number.
	slot := uint32(len(a.storage))
	a.storage = append(a.storage, entry[T]{value: value, generation: firstGeneration, occupied: true})
	return newIndex(slot, firstGeneration)
}

// lookup resolves index to its entry iff the slot is occupied and its
// stored generation matches. This generation check is the sole ABA-safety
// mechanism in the arena.
func (a *Arena[T]) lookup(index Index) *entry[T] {
	if index.slot >= uint32(len(a.storage)) {
		return nil
	}
	e := &a.storage[index.slot]
	if !e.occupied || e.generation != index.gen {
		return nil
	}
	return e
}

// Contains reports whether index refers to a live value.
func (a *Arena[T]) Contains(index Index) bool {
	return a.lookup(index) != nil
}

// ContainsSlot reports whether the given slot is occupied, disregarding
// generations, and returns the true Index of its current occupant.
func (a *Arena[T]) ContainsSlot(slot uint32) (Index, bool) {
	if slot >= uint32(len(a.storage)) {
		return Index{}, false
	}
	e := &a.storage[slot]
	if !e.occupied {
		return Index{}, false
	}
	return newIndex(slot, e.generation), true
}

// Get returns a pointer to the value for index, or nil if the handle is
// stale or the slot is empty. The pointer is valid until the next
// operation that may grow the arena's storage.
func (a *Arena[T]) Get(index Index) *T {
	e := a.lookup(index)
	if e == nil {
		return nil
	}
	return &e.value
}

// Get2 resolves two handles in one call, returning nil for whichever does
// not refer to a live value. Distinct slots address distinct entries, and
// two handles on the same slot with different generations can validate
// for at most one of the two, so the returned pointers never alias.
//
// Get2 panics when the indices are bit-for-bit identical: asking for two
// independent views of one value is a programmer error.
func (a *Arena[T]) Get2(i1, i2 Index) (*T, *T) {
	if i1 == i2 {
		panic("genarena: Get2 called with two identical indices")
	}
	return a.Get(i1), a.Get(i2)
}

// Remove deletes the value for index and returns it. If the handle is
// stale or the slot is empty, Remove returns the zero value and false
// without mutating the arena. The freed slot becomes the head of the free
// list.
func (a *Arena[T]) Remove(index Index) (T, bool) {
	e := a.lookup(index)
	if e == nil {
		var zero T
		return zero, false
	}
	return a.removeEntry(index.slot, e), true
}

// removeEntry converts an occupied entry to empty, keeping its generation
// so the next occupant advances it, and pushes the slot onto the free
// list head.
func (a *Arena[T]) removeEntry(slot uint32, e *entry[T]) T {
	value := e.value
	var zero T
	e.value = zero // drop the reference so the value can be collected
	e.occupied = false
	e.nextFree = a.firstFree
	a.firstFree = freePointerTo(slot)
	a.count--
	return value
}

// Invalidate advances the generation of the slot referred to by index
// without touching the value, returning a fresh handle to it. Every
// previously issued handle to that slot goes stale. It is equivalent in
// effect to Remove followed by Insert of the same value, minus the
// free-list round trip.
func (a *Arena[T]) Invalidate(index Index) (Index, bool) {
	e := a.lookup(index)
	if e == nil {
		return Index{}, false
	}
	e.generation = e.generation.Next()
	return newIndex(index.slot, e.generation), true
}

// GetBySlot looks up a slot directly, disregarding generations, and
// returns the current occupant's Index alongside a pointer to the value.
// Callers accept the ABA risk that the occupant is not the value they
// remember storing there.
func (a *Arena[T]) GetBySlot(slot uint32) (Index, *T, bool) {
	if slot >= uint32(len(a.storage)) {
		return Index{}, nil, false
	}
	e := &a.storage[slot]
	if !e.occupied {
		return Index{}, nil, false
	}
	return newIndex(slot, e.generation), &e.value, true
}

// RemoveBySlot removes whatever currently occupies the slot, disregarding
// generations, and returns its Index and value.
func (a *Arena[T]) RemoveBySlot(slot uint32) (Index, T, bool) {
	var zero T
	if slot >= uint32(len(a.storage)) {
		return Index{}, zero, false
	}
	e := &a.storage[slot]
	if !e.occupied {
		return Index{}, zero, false
	}
	index := newIndex(slot, e.generation)
	return index, a.removeEntry(slot, e), true
}

// InsertAt places value at the exact slot and generation carried by
// index, extending storage with empty placeholder slots as needed and
// splicing the target slot out of the free list if it was free. It
// returns the slot's prior value, if the slot was occupied.
//
// InsertAt can resurrect a handle whose generation the slot has since
// moved past; callers accept that risk explicitly. It exists to rebuild
// arenas from external data, not for everyday insertion.
func (a *Arena[T]) InsertAt(index Index, value T) (T, bool) {
	_, prev, replaced := a.insertAt(index.slot, index.gen, value)
	return prev, replaced
}

// InsertAtSlot places value at the given slot, advancing the slot's
// stored generation as a normal insertion would, and returns the fresh
// Index alongside the slot's prior value, if any.
func (a *Arena[T]) InsertAtSlot(slot uint32, value T) (Index, T, bool) {
	return a.insertAt(slot, 0, value)
}

// insertAt is the shared mechanics of InsertAt and InsertAtSlot. A zero
// gen means "advance from the slot's stored generation".
func (a *Arena[T]) insertAt(slot uint32, gen Generation, value T) (Index, T, bool) {
	if slot >= uint32(len(a.storage)) {
		a.extendStorage(slot)
	}

	e := &a.storage[slot]
	if e.occupied {
		if gen == 0 {
			gen = e.generation.Next()
		}
		e.generation = gen
		prev := e.value
		e.value = value
		return newIndex(slot, gen), prev, true
	}

	// The slot is somewhere on the free list; splice it out before
	// occupying it.
	a.unlinkFree(slot)
	if gen == 0 {
		gen = e.generation.Next()
	}
	if a.count == math.MaxUint32 {
		panic("genarena: cannot insert more than 4294967295 elements")
	}
	a.count++
	e.generation = gen
	e.value = value
	e.nextFree = noFreeSlot
	e.occupied = true

	var zero T
	return newIndex(slot, gen), zero, false
}

// extendStorage grows storage until slot is addressable, threading each
// placeholder slot into the free list in ascending slot order so the list
// stays internally consistent.
func (a *Arena[T]) extendStorage(slot uint32) {
	if slot == math.MaxUint32 {
		panic("genarena: slot exceeds 32-bit slot space")
	}
	for next := uint32(len(a.storage)); next <= slot; next++ {
		a.storage = append(a.storage, entry[T]{generation: firstGeneration, nextFree: a.firstFree})
		a.firstFree = freePointerTo(next)
	}
}

// unlinkFree removes slot from the free list. The slot may be anywhere in
// the list, so this walks from the head. A slot that is empty but absent
// from the list means the arena's invariants are already broken, which is
// unrecoverable.
func (a *Arena[T]) unlinkFree(slot uint32) {
	if a.firstFree == noFreeSlot {
		panic("genarena: empty slot missing from free list")
	}
	if a.firstFree.slot() == slot {
		a.firstFree = a.storage[slot].nextFree
		return
	}
	prev := a.firstFree.slot()
	for {
		next := a.storage[prev].nextFree
		if next == noFreeSlot {
			panic("genarena: empty slot missing from free list")
		}
		if next.slot() == slot {
			a.storage[prev].nextFree = a.storage[slot].nextFree
			return
		}
		prev = next.slot()
	}
}

// Retain removes every value for which keep returns false, with the same
// free-list mechanics as Remove. Each occupied slot is visited exactly
// once, in ascending slot order.
func (a *Arena[T]) Retain(keep func(Index, *T) bool) {
	for slot := range a.storage {
		e := &a.storage[slot]
		if !e.occupied {
			continue
		}
		index := newIndex(uint32(slot), e.generation)
		if !keep(index, &e.value) {
			a.removeEntry(uint32(slot), e)
		}
	}
}

// Clear removes and discards every value. Capacity is preserved.
func (a *Arena[T]) Clear() {
	a.Drain().Close()
}
