package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/genarena"
	"github.com/hupe1980/genarena/blobstore"
	"github.com/hupe1980/genarena/codec"
)

type payloadValue struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// buildArena creates an arena with an empty slot in the middle and a
// reused slot, so a round trip exercises generations and the free list.
func buildArena(t *testing.T) (*genarena.Arena[payloadValue], []genarena.Index) {
	t.Helper()

	arena := genarena.New[payloadValue]()
	a := arena.Insert(payloadValue{Name: "a", Score: 1})
	b := arena.Insert(payloadValue{Name: "b", Score: 2})
	c := arena.Insert(payloadValue{Name: "c", Score: 3})
	arena.Remove(b)
	arena.Remove(a)
	a2 := arena.Insert(payloadValue{Name: "a2", Score: 4}) // reuses a's slot
	require.Equal(t, a.Slot(), a2.Slot())

	return arena, []genarena.Index{a, b, c, a2}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}}
	compressions := []Compression{CompressionNone, CompressionZstd, CompressionLZ4}

	for _, c := range codecs {
		for _, comp := range compressions {
			t.Run(fmt.Sprintf("%s/%s", c.Name(), comp), func(t *testing.T) {
				arena, indices := buildArena(t)
				a, b, cc, a2 := indices[0], indices[1], indices[2], indices[3]

				var buf bytes.Buffer
				require.NoError(t, Write(&buf, arena, WithCodec(c), WithCompression(comp)))

				restored, err := Read[payloadValue](&buf)
				require.NoError(t, err)

				assert.Equal(t, arena.Len(), restored.Len())
				assert.Equal(t, payloadValue{Name: "c", Score: 3}, *restored.Get(cc))
				assert.Equal(t, payloadValue{Name: "a2", Score: 4}, *restored.Get(a2))

				// Stale handles stay stale across the round trip.
				assert.Nil(t, restored.Get(a))
				assert.Nil(t, restored.Get(b))

				// The empty slot is still reusable.
				idx := restored.Insert(payloadValue{Name: "new"})
				assert.Equal(t, b.Slot(), idx.Slot())
				assert.Equal(t, b.Generation().Next(), idx.Generation())
			})
		}
	}
}

func TestWriteRead_EmptyArena(t *testing.T) {
	arena := genarena.New[int]()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arena))

	restored, err := Read[int](&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Len())
}

func TestRead_CodecFromHeader(t *testing.T) {
	// Files written with the stdlib codec decode even when the reader is
	// configured with a different one.
	arena := genarena.New[string]()
	idx := arena.Insert("hello")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arena, WithCodec(codec.JSON{})))

	restored, err := Read[string](&buf, WithCodec(codec.GoJSON{}))
	require.NoError(t, err)
	assert.Equal(t, "hello", *restored.Get(idx))
}

func TestRead_InvalidMagic(t *testing.T) {
	buf := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0}

	_, err := Read[int](bytes.NewReader(buf))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestRead_UnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	arena := genarena.New[int]()
	require.NoError(t, Write(&buf, arena))

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:8], 99)

	_, err := Read[int](bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestRead_UnknownCodec(t *testing.T) {
	header := binary.LittleEndian.AppendUint32(nil, Magic)
	header = binary.LittleEndian.AppendUint32(header, Version)
	header = binary.AppendUvarint(header, 4)
	header = append(header, "riff"...)

	_, err := Read[int](bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestRead_UnknownCompression(t *testing.T) {
	header := binary.LittleEndian.AppendUint32(nil, Magic)
	header = binary.LittleEndian.AppendUint32(header, Version)
	header = binary.AppendUvarint(header, 4)
	header = append(header, "json"...)
	header = append(header, 42) // no such compression scheme

	_, err := Read[int](bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestRead_ChecksumMismatch(t *testing.T) {
	arena := genarena.New[string]()
	arena.Insert("x")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arena))

	// Flip a byte in the stored payload.
	data := buf.Bytes()
	data[len(data)-6] ^= 0xFF

	_, err := Read[string](bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestRead_Truncated(t *testing.T) {
	arena := genarena.New[string]()
	arena.Insert("x")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, arena))

	for cut := 1; cut < buf.Len(); cut += 5 {
		_, err := Read[string](bytes.NewReader(buf.Bytes()[:cut]))
		assert.Error(t, err, "truncated at %d bytes", cut)
	}
}

func TestRead_RejectsZeroGeneration(t *testing.T) {
	// Hand-build a payload whose single slot carries generation zero.
	payload := binary.AppendUvarint(nil, 1) // one slot
	bm := mustBitmapBytes(t)
	payload = binary.AppendUvarint(payload, uint64(len(bm)))
	payload = append(payload, bm...)
	payload = binary.AppendUvarint(payload, 0) // forbidden generation

	buf := writeRaw(t, payload)

	_, err := Read[int](bytes.NewReader(buf))
	require.Error(t, err)
	assert.ErrorIs(t, err, genarena.ErrZeroGeneration)
}

func TestRead_TrailingBytes(t *testing.T) {
	payload := binary.AppendUvarint(nil, 0) // zero slots
	bm := mustBitmapBytes(t)
	payload = binary.AppendUvarint(payload, uint64(len(bm)))
	payload = append(payload, bm...)
	payload = append(payload, 0xAA, 0xBB)

	buf := writeRaw(t, payload)

	_, err := Read[int](bytes.NewReader(buf))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSaveLoad_BlobStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	arena, indices := buildArena(t)
	require.NoError(t, Save(ctx, store, "arenas/test.arn", arena, WithCompression(CompressionZstd)))

	restored, err := Load[payloadValue](ctx, store, "arenas/test.arn")
	require.NoError(t, err)
	assert.Equal(t, arena.Len(), restored.Len())
	assert.Equal(t, "c", restored.Get(indices[2]).Name)
}

func TestLoad_NotFound(t *testing.T) {
	store := blobstore.NewMemoryStore()

	_, err := Load[int](context.Background(), store, "missing.arn")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

// writeRaw wraps an uncompressed payload in a valid header and checksum.
func writeRaw(t *testing.T, payload []byte) []byte {
	t.Helper()

	buf := binary.LittleEndian.AppendUint32(nil, Magic)
	buf = binary.LittleEndian.AppendUint32(buf, Version)
	buf = binary.AppendUvarint(buf, uint64(len("json")))
	buf = append(buf, "json"...)
	buf = append(buf, byte(CompressionNone))
	buf = binary.AppendUvarint(buf, uint64(len(payload)))
	buf = append(buf, payload...)
	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(payload))
}

func mustBitmapBytes(t *testing.T) []byte {
	t.Helper()
	bm, err := roaring.New().ToBytes()
	require.NoError(t, err)
	return bm
}
