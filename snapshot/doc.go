// Package snapshot persists arenas as self-describing binary blobs.
//
// A snapshot captures an arena's full slot sequence, including empty
// slots, so that generation counters survive a round trip and freed
// slots stay reusable: Load(Save(arena)) reproduces the same slot layout
// and length.
//
// # File Format
//
//	[Magic: 4 bytes "ARN0"]
//	[Version: 4 bytes]
//	[Codec name: uvarint length + bytes]
//	[Compression: 1 byte]
//	[Payload length: uvarint]
//	[Payload: possibly compressed]
//	[CRC32 of payload as stored: 4 bytes]
//
// The payload holds the slot count, a roaring bitmap of occupied slots,
// one generation per slot, and the codec-encoded values of occupied slots
// in ascending slot order. A zero generation anywhere in the stream fails
// decoding; no partial arena is ever returned.
//
// Files record their codec name and compression scheme, so they are opened
// without prior knowledge of how they were written.
package snapshot
