package iconus

import "errors"

// Parse and query failures wrap one of these sentinels - use errors.Is to
// distinguish them.
var (
	// ErrMalformedHeader indicates the 6-byte ICONDIR header is missing,
	// carries a nonzero reserved field, an unknown resource type or an
	// implausible image count
	ErrMalformedHeader = errors.New("malformed ICO header")
	// ErrInvalidEntry indicates a directory entry whose resource region
	// lies outside the supplied buffer
	ErrInvalidEntry = errors.New("invalid directory entry")
	// ErrInvalidDIBHeader indicates an embedded bitmap with an impossible
	// header size
	ErrInvalidDIBHeader = errors.New("invalid DIB header")
	// ErrInvalidDimensions indicates bitmap dimensions outside (0, 1024]
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrUnsupportedBitDepth indicates a bitmap bit depth other than
	// 1, 4, 8, 24 or 32
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrPNGDecode indicates an embedded PNG that the delegate decoder
	// rejected
	ErrPNGDecode = errors.New("failed to decode PNG")
	// ErrInvalidArgument indicates a bad query parameter (e.g. negative
	// width or height)
	ErrInvalidArgument = errors.New("invalid argument")
)
