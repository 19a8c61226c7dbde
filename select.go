package iconus

import (
	"fmt"
	"image"
	"math"
)

// upscalePenalty makes any candidate that would need upscaling score
// worse than any candidate that only needs downscaling
const upscalePenalty = 1000

// ExactSize returns the first icon (in input order) whose dimensions
// equal the requested pair, or nil if there is none. Width and height
// must be non-negative.
func ExactSize(icons []image.Image, width, height int) (image.Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: width and height must be non-negative", ErrInvalidArgument)
	}
	for _, icon := range icons {
		b := icon.Bounds()
		if b.Dx() == width && b.Dy() == height {
			return icon, nil
		}
	}
	return nil, nil
}

// BestMatch returns the icon best suited to be displayed at the
// requested size. An exact match always wins. Otherwise icons at least
// as large as the request score by excess area (downscaling a close
// size is best) and smaller icons score a flat penalty plus their
// deficit, so downscaling is always preferred over upscaling. Ties keep
// the first-encountered icon.
func BestMatch(icons []image.Image, width, height int) (image.Image, error) {
	if exact, err := ExactSize(icons, width, height); exact != nil || err != nil {
		return exact, err
	}
	var best image.Image
	bestScore := math.MaxInt
	for _, icon := range icons {
		b := icon.Bounds()
		w, h := b.Dx(), b.Dy()
		var score int
		if w >= width && h >= height {
			score = (w - width) * (h - height)
		} else {
			score = upscalePenalty + (width-w)*(height-h)
		}
		if score < bestScore {
			bestScore = score
			best = icon
		}
	}
	return best, nil
}

// HighestQuality returns the icon with the greatest area*sqrt(depth)
// score, where depth is the effective bit depth. Ties keep the
// first-encountered icon; nil if the list is empty.
func HighestQuality(icons []image.Image) image.Image {
	var best image.Image
	bestScore := -1
	for _, icon := range icons {
		if score := qualityScore(icon); score > bestScore {
			bestScore = score
			best = icon
		}
	}
	return best
}

// Largest returns the icon with the greatest pixel area. Ties keep the
// first-encountered icon; nil if the list is empty.
func Largest(icons []image.Image) image.Image {
	var largest image.Image
	largestArea := -1
	for _, icon := range icons {
		b := icon.Bounds()
		if area := b.Dx() * b.Dy(); area > largestArea {
			largestArea = area
			largest = icon
		}
	}
	return largest
}

func qualityScore(icon image.Image) int {
	b := icon.Bounds()
	return int(float64(b.Dx()*b.Dy()) * math.Sqrt(float64(effectiveBitDepth(icon))))
}

// effectiveBitDepth derives the quality metric from the decoded
// representation: palette size for indexed images, and for direct colour
// 32 when the image actually carries transparency and 24 when it is
// fully opaque.
func effectiveBitDepth(icon image.Image) int {
	if p, ok := icon.(*image.Paletted); ok {
		switch {
		case len(p.Palette) <= 2:
			return 1
		case len(p.Palette) <= 16:
			return 4
		default:
			return 8
		}
	}
	if op, ok := icon.(interface{ Opaque() bool }); ok && op.Opaque() {
		return 24
	}
	return 32
}
