package genarena

import "iter"

// Drain removes elements from the arena as they are produced, in
// ascending slot order. A drain is destructive by contract: once started
// it is expected to leave the arena empty, so callers that stop early
// must call Close, which removes every element the drain has not yet
// produced. Capacity is unaffected either way.
type Drain[T any] struct {
	arena *Arena[T]
	slot  uint32
}

// Drain returns a draining iterator over the arena.
func (a *Arena[T]) Drain() *Drain[T] {
	return &Drain[T]{arena: a}
}

// Len returns the number of elements left to drain.
func (d *Drain[T]) Len() int { return d.arena.Len() }

// Next removes and returns the next element. The element-count check lets
// it stop without scanning trailing empty slots.
func (d *Drain[T]) Next() (Index, T, bool) {
	for d.arena.count > 0 {
		slot := d.slot
		d.slot++
		if index, value, ok := d.arena.RemoveBySlot(slot); ok {
			return index, value, true
		}
	}
	var zero T
	return Index{}, zero, false
}

// Close removes and discards every element the drain has not yet
// produced, leaving the arena empty. It is idempotent.
func (d *Drain[T]) Close() {
	for {
		if _, _, ok := d.Next(); !ok {
			return
		}
	}
}

// Seq adapts the drain to a range-over-func sequence. Breaking out of the
// loop early still empties the arena, honoring the destructive contract.
func (d *Drain[T]) Seq() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for index, value, ok := d.Next(); ok; index, value, ok = d.Next() {
			if !yield(index, value) {
				d.Close()
				return
			}
		}
	}
}
