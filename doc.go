// Package genarena provides a generational slot arena: a container that
// hands out compact, copyable handles for inserted values with O(1)
// insert, lookup and removal, while detecting use of stale handles after
// a slot has been reused.
//
// # Quick Start
//
//	arena := genarena.New[string]()
//
//	foo := arena.Insert("foo")
//	bar := arena.Insert("bar")
//
//	fmt.Println(*arena.Get(foo)) // "foo"
//
//	arena.Remove(foo)
//	baz := arena.Insert("baz") // reuses foo's slot
//
//	arena.Get(foo) // nil: foo's generation is stale
//	arena.Get(baz) // "baz"
//
// # Handles
//
// Every value lives in a numbered slot. Removing a value recycles its slot
// through a LIFO free list, and the next insertion into that slot advances
// the slot's generation counter. An Index pairs the slot number with the
// generation it was created under, so a handle to a freed-and-reused slot
// is rejected even though the slot number still matches (the classic ABA
// problem). Indices are plain comparable values: copy them freely, use
// them as map keys, or pack them into a uint64 with Index.Bits.
//
// Generations wrap around to 1 after 2^32 - 1 reuses of a single slot.
// This bounds, but does not eliminate, the chance of a stale handle
// colliding with a live one; the trade-off keeps slots reusable forever.
//
// # Concurrency
//
// An Arena is a plain in-memory structure with no internal locking. It
// assumes a single owner: callers that share an arena across goroutines
// must synchronize externally. Pointers returned by Get and friends remain
// valid until the next operation that may grow the arena's storage.
//
// # Persistence
//
// Arena.Slots and FromSlots convert an arena to and from an ordered
// sequence of (generation, optional value) pairs, preserving empty slots
// so that generation counters survive a round trip and freed slots stay
// reusable. The snapshot subpackage wraps that sequence in a self-describing
// binary container with pluggable codecs, compression and blob storage.
package genarena
