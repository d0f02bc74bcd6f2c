package genarena

import "errors"

// ErrZeroGeneration is returned when a serialized generation or packed
// index decodes to zero. Zero is the reserved sentinel and can never be
// produced by a live arena, so any encoding that carries it is corrupt.
var ErrZeroGeneration = errors.New("genarena: generation must not be zero")
