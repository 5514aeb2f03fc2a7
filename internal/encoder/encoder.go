package encoder

import (
	"image"
)

// Encoder turns a bitmap into file bytes.
type Encoder interface {
	// Format returns the output format name (e.g. "png").
	Format() string

	// Encode serializes img. Output must be deterministic for identical input.
	Encode(img image.Image) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
