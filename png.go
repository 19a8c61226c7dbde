package iconus

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// isPNG reports whether a resource is an embedded PNG stream. Anything
// that doesn't open with the exact 8-byte PNG signature (including
// resources shorter than 8 bytes) is treated as a DIB.
func isPNG(data []byte) bool {
	return len(data) >= len(pngSignature) && bytes.Equal(data[:len(pngSignature)], pngSignature)
}

// decodePNG hands the resource bytes straight to the standard PNG
// decoder - no ICO-specific handling beyond routing.
func decodePNG(raw []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPNGDecode, err)
	}
	return img, nil
}
