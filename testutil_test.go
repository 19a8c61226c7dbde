package iconus

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// helpers for building ICO wire buffers in tests

type testResource struct {
	width      byte // raw on-disk byte - 0 means 256
	height     byte
	colorCount byte
	planes     uint16
	bitCount   uint16
	data       []byte
}

func buildICO(resType uint16, resources ...testResource) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	_ = binary.Write(&buf, binary.LittleEndian, resType)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(resources)))
	offset := headerSize + entrySize*len(resources)
	for _, res := range resources {
		buf.WriteByte(res.width)
		buf.WriteByte(res.height)
		buf.WriteByte(res.colorCount)
		buf.WriteByte(0)
		_ = binary.Write(&buf, binary.LittleEndian, res.planes)
		_ = binary.Write(&buf, binary.LittleEndian, res.bitCount)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(res.data)))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(offset))
		offset += len(res.data)
	}
	for _, res := range resources {
		buf.Write(res.data)
	}
	return buf.Bytes()
}

// writeDIBHeader writes a 40-byte BITMAPINFOHEADER with the combined
// (colour + mask) height convention used by icon resources
func writeDIBHeader(buf *bytes.Buffer, width, combinedHeight, bitCount int) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(40))
	_ = binary.Write(buf, binary.LittleEndian, int32(width))
	_ = binary.Write(buf, binary.LittleEndian, int32(combinedHeight))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitCount))
	buf.Write(make([]byte, 24)) // compression through ClrImportant
}

func buildDIB32(width, height int, pixel func(x, y int) color.NRGBA) []byte {
	var buf bytes.Buffer
	writeDIBHeader(&buf, width, height*2, 32)
	for y := height - 1; y >= 0; y-- {
		row := make([]byte, rowBytes(width, 32))
		for x := 0; x < width; x++ {
			c := pixel(x, y)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.B, c.G, c.R, c.A
		}
		buf.Write(row)
	}
	return buf.Bytes()
}

// buildDIB24 writes 24-bit colour rows followed, when mask is non-nil,
// by the AND mask (true = transparent)
func buildDIB24(width, height int, pixel func(x, y int) color.NRGBA, mask func(x, y int) bool) []byte {
	var buf bytes.Buffer
	writeDIBHeader(&buf, width, height*2, 24)
	for y := height - 1; y >= 0; y-- {
		row := make([]byte, rowBytes(width, 24))
		for x := 0; x < width; x++ {
			c := pixel(x, y)
			row[x*3], row[x*3+1], row[x*3+2] = c.B, c.G, c.R
		}
		buf.Write(row)
	}
	if mask != nil {
		buf.Write(buildMask(width, height, mask))
	}
	return buf.Bytes()
}

func buildMask(width, height int, mask func(x, y int) bool) []byte {
	var buf bytes.Buffer
	for y := height - 1; y >= 0; y-- {
		row := make([]byte, rowBytes(width, 1))
		for x := 0; x < width; x++ {
			if mask(x, y) {
				row[x/8] |= 1 << (7 - x%8)
			}
		}
		buf.Write(row)
	}
	return buf.Bytes()
}

// buildDIBPaletted writes a 1, 4 or 8-bit indexed resource: a full
// 2/16/256-entry BGRX palette, packed pixel rows and a zeroed mask region
func buildDIBPaletted(width, height, bitCount int, palette []color.RGBA, index func(x, y int) byte) []byte {
	var buf bytes.Buffer
	writeDIBHeader(&buf, width, height*2, bitCount)
	for i := 0; i < 1<<bitCount; i++ {
		var c color.RGBA
		if i < len(palette) {
			c = palette[i]
		}
		buf.Write([]byte{c.B, c.G, c.R, 0})
	}
	for y := height - 1; y >= 0; y-- {
		row := make([]byte, rowBytes(width, bitCount))
		for x := 0; x < width; x++ {
			idx := index(x, y)
			switch bitCount {
			case 1:
				row[x/8] |= (idx & 1) << (7 - x%8)
			case 4:
				if x%2 == 0 {
					row[x/2] |= idx << 4
				} else {
					row[x/2] |= idx & 0x0F
				}
			case 8:
				row[x] = idx
			}
		}
		buf.Write(row)
	}
	buf.Write(make([]byte, rowBytes(width, 1)*height))
	return buf.Bytes()
}

func buildPNG(t *testing.T, width, height int, pixel func(x, y int) color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, pixel(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(c color.NRGBA) func(x, y int) color.NRGBA {
	return func(int, int) color.NRGBA {
		return c
	}
}
