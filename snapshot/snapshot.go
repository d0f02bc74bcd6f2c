package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/genarena"
	"github.com/hupe1980/genarena/blobstore"
	"github.com/hupe1980/genarena/codec"
)

// Write serializes the arena to w in the snapshot file format.
func Write[T any](w io.Writer, a *genarena.Arena[T], opts ...Option) error {
	o := applyOptions(opts)

	slots := a.Slots()

	payload, err := encodePayload(o.Codec, slots)
	if err != nil {
		return err
	}

	stored, err := compress(o.Compression, payload)
	if err != nil {
		return err
	}

	name := o.Codec.Name()
	header := binary.LittleEndian.AppendUint32(nil, Magic)
	header = binary.LittleEndian.AppendUint32(header, Version)
	header = binary.AppendUvarint(header, uint64(len(name)))
	header = append(header, name...)
	header = append(header, byte(o.Compression))
	header = binary.AppendUvarint(header, uint64(len(stored)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := w.Write(stored); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}

	// The checksum covers the payload as stored, so corruption is caught
	// before any decompression work.
	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], crc32.ChecksumIEEE(stored))
	if _, err := w.Write(crc[:]); err != nil {
		return fmt.Errorf("snapshot: write checksum: %w", err)
	}

	o.Logger.Debug("snapshot written",
		"slots", len(slots),
		"elements", a.Len(),
		"codec", name,
		"compression", o.Compression.String(),
		"payload_bytes", len(stored),
	)

	return nil
}

// Read deserializes an arena from r. The codec and compression scheme are
// taken from the file header; WithCodec and WithCompression are ignored.
func Read[T any](r io.Reader, opts ...Option) (*genarena.Arena[T], error) {
	o := applyOptions(opts)
	br := bufio.NewReader(r)

	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}

	nameLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read codec name: %w", err)
	}
	if nameLen > maxCodecName {
		return nil, fmt.Errorf("%w: codec name length %d", ErrCorrupt, nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, fmt.Errorf("snapshot: read codec name: %w", err)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	compByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("snapshot: read compression: %w", err)
	}
	comp := Compression(compByte)
	if comp > CompressionLZ4 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compByte)
	}

	storedLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read payload length: %w", err)
	}
	stored := make([]byte, storedLen)
	if _, err := io.ReadFull(br, stored); err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}

	var crc [4]byte
	if _, err := io.ReadFull(br, crc[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read checksum: %w", err)
	}
	if crc32.ChecksumIEEE(stored) != binary.LittleEndian.Uint32(crc[:]) {
		return nil, ErrChecksumMismatch
	}

	payload, err := decompress(comp, stored)
	if err != nil {
		return nil, err
	}

	slots, err := decodePayload[T](c, payload)
	if err != nil {
		return nil, err
	}

	a, err := genarena.FromSlots(slots)
	if err != nil {
		return nil, err
	}

	o.Logger.Debug("snapshot loaded",
		"slots", len(slots),
		"elements", a.Len(),
		"codec", string(name),
		"compression", comp.String(),
	)

	return a, nil
}

// Save writes the arena as a blob in store under the given name.
func Save[T any](ctx context.Context, store blobstore.BlobStore, name string, a *genarena.Arena[T], opts ...Option) error {
	var buf bytes.Buffer
	if err := Write(&buf, a, opts...); err != nil {
		return err
	}
	return store.Put(ctx, name, &buf)
}

// Load reads an arena back from a blob written by Save.
func Load[T any](ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*genarena.Arena[T], error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Read[T](rc, opts...)
}

// encodePayload lays out the uncompressed payload: slot count, occupancy
// bitmap, per-slot generations, then the values of occupied slots in
// ascending slot order.
func encodePayload[T any](c codec.Codec, slots []genarena.Slot[T]) ([]byte, error) {
	buf := binary.AppendUvarint(nil, uint64(len(slots)))

	occupied := roaring.New()
	for i := range slots {
		if slots[i].Value != nil {
			occupied.Add(uint32(i))
		}
	}
	bm, err := occupied.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode occupancy bitmap: %w", err)
	}
	buf = binary.AppendUvarint(buf, uint64(len(bm)))
	buf = append(buf, bm...)

	for i := range slots {
		buf = binary.AppendUvarint(buf, uint64(slots[i].Generation.Uint32()))
	}

	for i := range slots {
		if slots[i].Value == nil {
			continue
		}
		data, err := c.Marshal(slots[i].Value)
		if err != nil {
			return nil, fmt.Errorf("snapshot: encode slot %d: %w", i, err)
		}
		buf = binary.AppendUvarint(buf, uint64(len(data)))
		buf = append(buf, data...)
	}

	return buf, nil
}

// decodePayload is the inverse of encodePayload. It validates every
// length and generation before anything touches an arena.
func decodePayload[T any](c codec.Codec, payload []byte) ([]genarena.Slot[T], error) {
	count, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, fmt.Errorf("%w: slot count", ErrCorrupt)
	}
	payload = payload[n:]
	if count > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d slots exceed the 32-bit slot space", ErrCorrupt, count)
	}

	bmLen, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bitmap length", ErrCorrupt)
	}
	payload = payload[n:]
	if uint64(len(payload)) < bmLen {
		return nil, fmt.Errorf("%w: short buffer for bitmap", ErrCorrupt)
	}
	occupied := roaring.New()
	if err := occupied.UnmarshalBinary(payload[:bmLen]); err != nil {
		return nil, fmt.Errorf("%w: occupancy bitmap: %v", ErrCorrupt, err)
	}
	payload = payload[bmLen:]

	slots := make([]genarena.Slot[T], count)
	for i := range slots {
		g, n := binary.Uvarint(payload)
		if n <= 0 {
			return nil, fmt.Errorf("%w: generation for slot %d", ErrCorrupt, i)
		}
		payload = payload[n:]
		if g > math.MaxUint32 {
			return nil, fmt.Errorf("%w: generation %d out of range", ErrCorrupt, g)
		}
		gen, err := genarena.GenerationFromUint32(uint32(g))
		if err != nil {
			return nil, fmt.Errorf("snapshot: slot %d: %w", i, err)
		}
		slots[i].Generation = gen
	}

	it := occupied.Iterator()
	for it.HasNext() {
		slot := it.Next()
		if uint64(slot) >= count {
			return nil, fmt.Errorf("%w: occupied slot %d out of range", ErrCorrupt, slot)
		}

		vLen, n := binary.Uvarint(payload)
		if n <= 0 {
			return nil, fmt.Errorf("%w: value length for slot %d", ErrCorrupt, slot)
		}
		payload = payload[n:]
		if uint64(len(payload)) < vLen {
			return nil, fmt.Errorf("%w: short buffer for slot %d", ErrCorrupt, slot)
		}

		var v T
		if err := c.Unmarshal(payload[:vLen], &v); err != nil {
			return nil, fmt.Errorf("snapshot: decode slot %d: %w", slot, err)
		}
		payload = payload[vLen:]
		slots[slot].Value = &v
	}

	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(payload))
	}

	return slots, nil
}
