package iconus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
)

// maxDimension rejects dimensions large enough to make allocation
// arithmetic dangerous before any pixel buffer is created
const maxDimension = 1024

// decodeDIB decodes an embedded device-independent bitmap resource.
//
// The directory entry is needed because the DIB's own height field is
// ambiguous: icon resources store the combined height of the colour data
// and the AND mask, so the real height is half of it - except that some
// encoders write the plain height instead, in which case the entry's
// declared height is trusted. That reconciliation is a defensive
// heuristic, not a format guarantee.
func decodeDIB(raw []byte, entry DirEntry) (image.Image, error) {
	if len(raw) < 16 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidDIBHeader, len(raw))
	}
	r := bytes.NewReader(raw)
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDIBHeader, err)
	}
	dibHeaderSize := int(binary.LittleEndian.Uint32(hdr[0:4]))
	if dibHeaderSize < 12 {
		return nil, fmt.Errorf("%w: header size %d", ErrInvalidDIBHeader, dibHeaderSize)
	}
	width := int(int32(binary.LittleEndian.Uint32(hdr[4:8])))
	combinedHeight := int(int32(binary.LittleEndian.Uint32(hdr[8:12])))
	height := combinedHeight / 2
	if height != entry.Height && combinedHeight == entry.Height {
		height = entry.Height
	}
	bitCount := int(binary.LittleEndian.Uint16(hdr[14:16]))
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	switch bitCount {
	case 1, 4, 8:
		return decodePaletted(r, width, height, bitCount)
	case 24, 32:
		// remaining header fields (compression etc.) carry nothing an icon
		// resource needs
		if err := skip(r, dibHeaderSize-16); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDIBHeader, err)
		}
		return decodeTrueColor(r, width, height, bitCount)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitCount)
	}
}

// decodePaletted decodes the 1, 4 and 8-bit indexed forms: the rest of
// the 40-byte header, a BGRX palette of 2, 16 or 256 entries, then pixel
// rows bottom-to-top, each padded to a 4-byte boundary. The AND mask
// that follows is not consulted - the image stays indexed.
func decodePaletted(r io.Reader, width, height, bitCount int) (image.Image, error) {
	if err := skip(r, 24); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDIBHeader, err)
	}
	palette := make(color.Palette, 1<<bitCount)
	var quad [4]byte
	for i := range palette {
		if _, err := io.ReadFull(r, quad[:]); err != nil {
			return nil, fmt.Errorf("palette truncated at entry %d: %w", i, err)
		}
		palette[i] = color.RGBA{R: quad[2], G: quad[1], B: quad[0], A: 0xFF}
	}
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	rowSize := rowBytes(width, bitCount)
	row := make([]byte, rowSize)
	for y := height - 1; y >= 0; y-- {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("pixel row %d truncated: %w", y, err)
		}
		dst := img.Pix[y*img.Stride : y*img.Stride+width]
		switch bitCount {
		case 1:
			for x := 0; x < width; x++ {
				dst[x] = (row[x/8] >> (7 - x%8)) & 1
			}
		case 4:
			for x := 0; x < width; x++ {
				if x%2 == 0 {
					dst[x] = row[x/2] >> 4
				} else {
					dst[x] = row[x/2] & 0x0F
				}
			}
		case 8:
			copy(dst, row[:width])
		}
	}
	return img, nil
}

// decodeTrueColor decodes the 24 and 32-bit forms: pixel rows
// bottom-to-top in B,G,R[,A] order, padded to 4-byte boundaries. 32-bit
// resources carry their own alpha channel and never consult the AND
// mask; 24-bit resources start fully opaque and take their transparency
// from the mask afterwards.
func decodeTrueColor(r io.Reader, width, height, bitCount int) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	bytesPerPixel := bitCount / 8
	row := make([]byte, rowBytes(width, bitCount))
	for y := height - 1; y >= 0; y-- {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("pixel row %d truncated: %w", y, err)
		}
		for x := 0; x < width; x++ {
			offset := x * bytesPerPixel
			a := byte(0xFF)
			if bitCount == 32 {
				a = row[offset+3]
			}
			i := y*img.Stride + x*4
			img.Pix[i] = row[offset+2]
			img.Pix[i+1] = row[offset+1]
			img.Pix[i+2] = row[offset]
			img.Pix[i+3] = a
		}
	}
	if bitCount == 24 {
		applyAndMask(r, img, width, height)
	}
	return img, nil
}

// applyAndMask reads the 1-bit transparency mask that follows 24-bit
// colour data (one bit per pixel, MSB first, rows bottom-to-top and
// padded to 4-byte boundaries) and forces alpha to 0 where a bit is set
// and to 255 where it is clear.
//
// This is the one place the decoder fails open: real-world ICO files
// frequently truncate or mangle the mask, and keeping an opaque icon is
// better than losing it. A mask that cannot be read in full is ignored
// entirely.
func applyAndMask(r io.Reader, img *image.NRGBA, width, height int) {
	maskRowSize := rowBytes(width, 1)
	mask := make([]byte, maskRowSize*height)
	if _, err := io.ReadFull(r, mask); err != nil {
		return
	}
	for y := height - 1; y >= 0; y-- {
		maskRow := mask[(height-1-y)*maskRowSize:]
		for x := 0; x < width; x++ {
			a := byte(0xFF)
			if (maskRow[x/8]>>(7-x%8))&1 == 1 {
				a = 0
			}
			img.Pix[y*img.Stride+x*4+3] = a
		}
	}
}

// rowBytes is the length of one stored row: bit-packed pixels padded to
// a 4-byte boundary
func rowBytes(width, bitCount int) int {
	return ((width*bitCount + 31) / 32) * 4
}

func skip(r io.Reader, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}
