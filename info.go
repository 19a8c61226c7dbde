package iconus

import (
	"fmt"
	"image"
)

// Format is the detected resource format tag
type Format string

const (
	FormatPNG Format = "PNG"
	FormatBMP Format = "BMP"
)

// IconInfo describes one embedded icon without decoding its pixels: it
// is derived from the directory entry plus a peek at the resource's
// first bytes.
type IconInfo struct {
	Width    int
	Height   int
	BitDepth int
	Colors   int    // declared colour count from the directory entry
	Format   Format // "PNG" or "BMP"
	DataSize int    // resource length in bytes
}

func (i IconInfo) String() string {
	return fmt.Sprintf("%dx%d, %d-bit %s, %d colors, %d bytes", i.Width, i.Height, i.BitDepth, i.Format, i.Colors, i.DataSize)
}

func entryInfo(data []byte, e DirEntry) IconInfo {
	format := FormatBMP
	if isPNG(data[e.Offset : e.Offset+e.Size]) {
		format = FormatPNG
	}
	return IconInfo{
		Width:    e.Width,
		Height:   e.Height,
		BitDepth: e.BitCount,
		Colors:   e.ColorCount,
		Format:   format,
		DataSize: e.Size,
	}
}

// AvailableSizes returns the distinct sizes across all directory
// entries, in first-seen order. Usable without any pixel decoding.
func (s *IconSet) AvailableSizes() []image.Point {
	seen := make(map[image.Point]bool, len(s.Entries))
	sizes := make([]image.Point, 0, len(s.Entries))
	for _, e := range s.Entries {
		size := image.Pt(e.Width, e.Height)
		if !seen[size] {
			seen[size] = true
			sizes = append(sizes, size)
		}
	}
	return sizes
}
