package snapshot

import "errors"

const (
	// Magic identifies genarena snapshot files (ASCII: "ARN0").
	Magic = 0x41524E30
	// Version is the current file format version.
	Version = 1

	// maxCodecName bounds the codec-name field so a corrupt header cannot
	// trigger an oversized allocation.
	maxCodecName = 255
)

// Compression selects how a snapshot's payload is compressed. The scheme
// is recorded in the file header, so readers need no configuration.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = iota
	// CompressionZstd compresses with zstd (github.com/klauspost/compress).
	CompressionZstd
	// CompressionLZ4 compresses with LZ4 framing (github.com/pierrec/lz4).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMagic is returned when a blob does not start with the
	// snapshot magic number.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrInvalidVersion is returned for format versions this build cannot read.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCodec is returned when the header names a codec that is not registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
	// ErrUnknownCompression is returned for compression schemes this build cannot read.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	// ErrChecksumMismatch is returned when the payload fails CRC32
	// verification, indicating storage corruption.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	// ErrCorrupt is returned when the payload structure itself is
	// malformed (truncated fields, out-of-range slot references).
	ErrCorrupt = errors.New("snapshot: corrupt payload")
)
