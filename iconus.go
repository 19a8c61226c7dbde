// Package iconus decodes the Windows ICO (and CUR) container format: a
// directory of embedded icon resources, each either a PNG stream or a
// device-independent bitmap at 1, 4, 8, 24 or 32 bits per pixel, with
// transparency reconstructed from the trailing AND mask where no alpha
// channel exists.
//
// Decoded images are memoized by (width, height, bit depth) - a request
// shape, not a content hash. Two distinct icons sharing that shape will
// alias in the cache and the second lookup silently returns the first
// icon's pixels. Files that carry visually different icons at the same
// size and depth are rare but legal; integrators for whom that matters
// should treat the cache as advisory. The keying scheme is preserved
// deliberately rather than silently redesigned.
package iconus

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-multierror"
)

type ParseMode uint8

const (
	// ParseFull parses the directory and decodes every entry
	ParseFull ParseMode = iota
	// ParseDirectoryOnly stops after the directory and metadata - useful
	// for listing an ICO's contents without paying for pixel decoding
	ParseDirectoryOnly
)

// ParseOptions represents the parsing options passed to Parser.Parse
type ParseOptions struct {
	// Mode determines how much of the container to parse
	//
	// the default is ParseFull - decodes every entry's pixels
	Mode ParseMode
	// ErrorOnEntryDecode determines whether a single entry failing to
	// decode aborts the whole parse
	//
	// defaults to false - failed entries are recorded in the result and
	// omitted from Icons, reflecting real-world tolerance for partially
	// corrupt multi-image files
	ErrorOnEntryDecode bool
}

// Parser decodes ICO buffers, memoizing decoded images across calls.
// Safe for concurrent use - the cache is the only shared state.
type Parser struct {
	cache *iconCache
}

// NewParser creates a parser with the default cache capacity
func NewParser() *Parser {
	return &Parser{cache: newIconCache(DefaultCacheSize)}
}

// NewParserCacheSize creates a parser whose cache holds at most capacity
// decoded images (least-recently-used eviction). A capacity of 0 means
// unbounded; a negative capacity is rejected.
func NewParserCacheSize(capacity int) (*Parser, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: cache size cannot be negative", ErrInvalidArgument)
	}
	return &Parser{cache: newIconCache(capacity)}, nil
}

// ClearCache discards all memoized images
func (p *Parser) ClearCache() {
	p.cache.clear()
}

// EntryResult pairs a directory entry with its decode outcome, keeping
// the entry-to-image association explicit even when some entries fail.
type EntryResult struct {
	Entry DirEntry
	Image image.Image // nil when Err is set
	Err   error
}

// IconSet is the result of parsing one ICO buffer. Entries, Infos and
// Results are all in on-disk directory order and never reference the
// source buffer.
type IconSet struct {
	// Entries is the parsed directory
	Entries []DirEntry
	// Infos is per-entry metadata, available even in ParseDirectoryOnly mode
	Infos []IconInfo
	// Results holds one decode outcome per entry (nil in ParseDirectoryOnly mode)
	Results []EntryResult
}

// Icons returns the successfully decoded images in directory order.
// Failed entries are dropped, so indexes do not line up with Entries
// when any entry failed - use Results for the exact association.
func (s *IconSet) Icons() []image.Image {
	icons := make([]image.Image, 0, len(s.Results))
	for _, r := range s.Results {
		if r.Err == nil {
			icons = append(icons, r.Image)
		}
	}
	return icons
}

// DecodeErr aggregates the per-entry decode failures, or nil if every
// entry decoded. Advisory only - Parse does not treat these as fatal
// unless ParseOptions.ErrorOnEntryDecode is set.
func (s *IconSet) DecodeErr() error {
	var result *multierror.Error
	for i, r := range s.Results {
		if r.Err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): %w", i, r.Entry, r.Err))
		}
	}
	return result.ErrorOrNil()
}

// ExactSize returns the first decoded icon matching the requested
// dimensions exactly, or nil
func (s *IconSet) ExactSize(width, height int) (image.Image, error) {
	return ExactSize(s.Icons(), width, height)
}

// BestMatch returns the decoded icon best suited for display at the
// requested dimensions
func (s *IconSet) BestMatch(width, height int) (image.Image, error) {
	return BestMatch(s.Icons(), width, height)
}

// HighestQuality returns the decoded icon with the best area and
// bit-depth score
func (s *IconSet) HighestQuality() image.Image {
	return HighestQuality(s.Icons())
}

// Largest returns the decoded icon with the greatest pixel area
func (s *IconSet) Largest() image.Image {
	return Largest(s.Icons())
}

// Parse decodes a complete ICO (or CUR) buffer with the supplied
// ParseOptions.
//
// if the ParseOptions supplied is nil, default (full) options are used
//
// Header or directory failures abort the parse; failures decoding an
// individual entry's pixels are contained at the entry boundary and
// recorded in the result instead (unless ErrorOnEntryDecode is set).
func (p *Parser) Parse(data []byte, options *ParseOptions) (*IconSet, error) {
	if options == nil {
		options = &ParseOptions{
			Mode: ParseFull,
		}
	}
	entries, err := parseDirectory(data)
	if err != nil {
		return nil, err
	}
	result := &IconSet{
		Entries: entries,
		Infos:   make([]IconInfo, len(entries)),
	}
	for i, e := range entries {
		result.Infos[i] = entryInfo(data, e)
	}
	if options.Mode >= ParseDirectoryOnly {
		return result, nil
	}
	result.Results = make([]EntryResult, len(entries))
	for i, e := range entries {
		img, err := p.loadIcon(data, e)
		result.Results[i] = EntryResult{Entry: e, Image: img, Err: err}
		if err != nil && options.ErrorOnEntryDecode {
			return nil, fmt.Errorf("failed to decode entry %d (%s): %w", i, e, err)
		}
	}
	return result, nil
}

// loadIcon decodes one entry's resource, going through the cache
func (p *Parser) loadIcon(data []byte, e DirEntry) (image.Image, error) {
	key := cacheKey{width: e.Width, height: e.Height, bitDepth: e.BitCount}
	if img, ok := p.cache.get(key); ok {
		return img, nil
	}
	raw := extractResource(data, e)
	var img image.Image
	var err error
	if isPNG(raw) {
		img, err = decodePNG(raw)
	} else {
		img, err = decodeDIB(raw, e)
	}
	if err != nil {
		return nil, err
	}
	p.cache.put(key, img)
	return img, nil
}
