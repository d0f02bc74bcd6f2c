package snapshot

import (
	"log/slog"

	"github.com/hupe1980/genarena/codec"
)

// Options configure snapshot writing and reading.
type Options struct {
	// Codec encodes slot values. Defaults to codec.Default. Ignored on
	// read: files record the codec they were written with.
	Codec codec.Codec

	// Compression selects the payload compression for new snapshots.
	// Defaults to CompressionNone. Ignored on read.
	Compression Compression

	// Logger receives debug-level progress events. Defaults to a
	// discarding logger.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithCodec sets the codec used to encode slot values.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) { o.Codec = c }
}

// WithCompression sets the payload compression scheme.
func WithCompression(c Compression) Option {
	return func(o *Options) { o.Compression = c }
}

// WithLogger sets the logger for snapshot operations.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func applyOptions(opts []Option) Options {
	o := Options{
		Codec:       codec.Default,
		Compression: CompressionNone,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
