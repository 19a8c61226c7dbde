package iconus

import (
	"encoding/binary"
	"fmt"
)

const (
	headerSize = 6
	entrySize  = 16
	// maxEntryCount guards against crafted counts causing huge allocations
	maxEntryCount = 1024
	// resourceTypeIcon and resourceTypeCursor are the only valid values of
	// the ICONDIR type field
	resourceTypeIcon   = 1
	resourceTypeCursor = 2
)

// DirEntry is one parsed ICONDIRENTRY - the fixed 16-byte record
// describing a single embedded image resource.
//
// Width and Height are already resolved: the on-disk bytes use 0 to mean
// 256 (a byte cannot hold 256).
type DirEntry struct {
	Width      int // resolved width in pixels, 1..256
	Height     int // resolved height in pixels, 1..256
	ColorCount int // declared palette size (0 for >= 8bpp)
	Reserved   int
	Planes     int // colour planes (hotspot X for cursors - not interpreted)
	BitCount   int // bits per pixel (hotspot Y for cursors - not interpreted)
	Size       int // resource length in bytes
	Offset     int // resource offset from the beginning of the file
}

func (e DirEntry) String() string {
	return fmt.Sprintf("%dx%d, %d-bit (%d bytes at offset %d)", e.Width, e.Height, e.BitCount, e.Size, e.Offset)
}

// parseDirectory validates the ICONDIR header and reads all directory
// entries. Any failure here aborts the whole parse - there is no such
// thing as a partial directory.
func parseDirectory(data []byte) ([]DirEntry, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformedHeader, len(data))
	}
	reserved := binary.LittleEndian.Uint16(data[0:2])
	resType := binary.LittleEndian.Uint16(data[2:4])
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if reserved != 0 || (resType != resourceTypeIcon && resType != resourceTypeCursor) || count == 0 || count > maxEntryCount {
		return nil, fmt.Errorf("%w: reserved=%d, type=%d, count=%d", ErrMalformedHeader, reserved, resType, count)
	}
	if len(data) < headerSize+count*entrySize {
		return nil, fmt.Errorf("%w: %d bytes is too short for %d entries", ErrMalformedHeader, len(data), count)
	}
	entries := make([]DirEntry, count)
	for i := 0; i < count; i++ {
		base := headerSize + i*entrySize
		raw := data[base : base+entrySize]
		size := int(binary.LittleEndian.Uint32(raw[8:12]))
		offset := int(binary.LittleEndian.Uint32(raw[12:16]))
		if offset < 0 || size <= 0 || int64(offset)+int64(size) > int64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d: offset=%d, size=%d exceeds data bounds (%d)", ErrInvalidEntry, i, offset, size, len(data))
		}
		entries[i] = DirEntry{
			Width:      resolveExtent(raw[0]),
			Height:     resolveExtent(raw[1]),
			ColorCount: int(raw[2]),
			Reserved:   int(raw[3]),
			Planes:     int(binary.LittleEndian.Uint16(raw[4:6])),
			BitCount:   int(binary.LittleEndian.Uint16(raw[6:8])),
			Size:       size,
			Offset:     offset,
		}
	}
	return entries, nil
}

// resolveExtent applies the ICO quirk where a stored 0 means 256
func resolveExtent(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// extractResource copies out the resource bytes for an already validated
// entry. Always an independent copy - nothing returned from a parse may
// alias the source buffer.
func extractResource(data []byte, e DirEntry) []byte {
	raw := make([]byte, e.Size)
	copy(raw, data[e.Offset:e.Offset+e.Size])
	return raw
}
