package genarena

import "iter"

// DrainFilter removes and yields only the elements a predicate selects,
// leaving the rest in place. Unlike Drain it may be abandoned at any
// point: elements not yet visited simply stay in the arena.
type DrainFilter[T any] struct {
	arena *Arena[T]
	pred  func(Index, *T) bool
	slot  uint32
}

// DrainFilter returns a predicate-filtered draining iterator. The
// predicate receives a pointer into the arena and may mutate the value
// even when it decides to keep it.
func (a *Arena[T]) DrainFilter(pred func(Index, *T) bool) *DrainFilter[T] {
	return &DrainFilter[T]{arena: a, pred: pred}
}

// Next removes and returns the next element matching the predicate.
func (f *DrainFilter[T]) Next() (Index, T, bool) {
	for f.slot < uint32(len(f.arena.storage)) {
		slot := f.slot
		f.slot++
		e := &f.arena.storage[slot]
		if !e.occupied {
			continue
		}
		index := newIndex(slot, e.generation)
		if f.pred(index, &e.value) {
			return index, f.arena.removeEntry(slot, e), true
		}
	}
	var zero T
	return Index{}, zero, false
}

// Seq adapts the filter to a range-over-func sequence. Breaking out of
// the loop leaves unvisited elements untouched.
func (f *DrainFilter[T]) Seq() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for index, value, ok := f.Next(); ok; index, value, ok = f.Next() {
			if !yield(index, value) {
				return
			}
		}
	}
}
