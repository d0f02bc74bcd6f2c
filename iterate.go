package genarena

import "iter"

// Iterator walks an arena's occupied slots, skipping empty ones. Next
// advances from slot 0 upward and NextBack from the highest slot
// downward; the two directions may be interleaved and terminate when the
// cursors meet in the middle. Len stays exact at every step, so trailing
// empty slots are never scanned past the last live element.
//
// The iterator borrows the arena: mutating the arena while iterating,
// other than through the pointers it yields, is undefined.
type Iterator[T any] struct {
	arena     *Arena[T]
	front     uint32 // next slot examined by Next
	back      uint32 // one past the next slot examined by NextBack
	remaining uint32
}

// Iter returns an iterator over the arena in ascending slot order.
func (a *Arena[T]) Iter() *Iterator[T] {
	return &Iterator[T]{
		arena:     a,
		back:      uint32(len(a.storage)),
		remaining: a.count,
	}
}

// Len returns the exact number of elements the iterator has not yet
// produced, in either direction.
func (it *Iterator[T]) Len() int { return int(it.remaining) }

// Next yields the next occupied slot from the front. The returned pointer
// may be used to mutate the value in place.
func (it *Iterator[T]) Next() (Index, *T, bool) {
	for it.remaining > 0 && it.front < it.back {
		slot := it.front
		it.front++
		e := &it.arena.storage[slot]
		if e.occupied {
			it.remaining--
			return newIndex(slot, e.generation), &e.value, true
		}
	}
	return Index{}, nil, false
}

// NextBack yields the next occupied slot from the back.
func (it *Iterator[T]) NextBack() (Index, *T, bool) {
	for it.remaining > 0 && it.back > it.front {
		it.back--
		e := &it.arena.storage[it.back]
		if e.occupied {
			it.remaining--
			return newIndex(it.back, e.generation), &e.value, true
		}
	}
	return Index{}, nil, false
}

// All returns a range-over-func sequence of (Index, *T) pairs in
// ascending slot order.
//
//	for index, value := range arena.All() {
//		...
//	}
func (a *Arena[T]) All() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		it := a.Iter()
		for index, value, ok := it.Next(); ok; index, value, ok = it.Next() {
			if !yield(index, value) {
				return
			}
		}
	}
}

// Backward returns a range-over-func sequence of (Index, *T) pairs in
// descending slot order.
func (a *Arena[T]) Backward() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		it := a.Iter()
		for index, value, ok := it.NextBack(); ok; index, value, ok = it.NextBack() {
			if !yield(index, value) {
				return
			}
		}
	}
}
