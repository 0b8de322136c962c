// Package sprite encodes and decodes the run-length pixel streams stored in
// sprite chunks.
//
// Two generations exist. Legacy sprites (SPR#) hold a single plane of
// palette indices with byte-wide commands. Modern sprites (SPR2) hold color,
// depth and 5-bit coverage planes with 16-bit commands whose top three bits
// select the operation and low thirteen bits carry a length. Both encoders
// scan rows top to bottom and pixels left to right, never encode trailing
// transparency and collapse whole transparent rows into a single command.
package sprite

import "fmt"

// Zoom is the render scale a frame is drawn at.
type Zoom int

// Zoom tiers, largest first.
const (
	ZoomLarge Zoom = iota
	ZoomMedium
	ZoomSmall
)

// Zooms lists every tier in frame order.
var Zooms = [...]Zoom{ZoomLarge, ZoomMedium, ZoomSmall}

// String returns the tier name used in sprite file names.
func (z Zoom) String() string {
	switch z {
	case ZoomLarge:
		return "large"
	case ZoomMedium:
		return "medium"
	case ZoomSmall:
		return "small"
	default:
		return fmt.Sprintf("zoom(%d)", int(z))
	}
}

// Valid reports whether z is a known tier.
func (z Zoom) Valid() bool {
	return z >= ZoomLarge && z <= ZoomSmall
}

// Scale returns the downscale divisor of the tier.
func (z Zoom) Scale() int {
	return 1 << uint(z)
}

// Rotation is one of the four isometric facings.
type Rotation int

// Rotations in frame order.
const (
	RotationNorthWest Rotation = iota
	RotationNorthEast
	RotationSouthEast
	RotationSouthWest
)

// Rotations lists every facing in frame order.
var Rotations = [...]Rotation{RotationNorthWest, RotationNorthEast, RotationSouthEast, RotationSouthWest}

// String returns the facing name used in sprite file names.
func (r Rotation) String() string {
	switch r {
	case RotationNorthWest:
		return "nw"
	case RotationNorthEast:
		return "ne"
	case RotationSouthEast:
		return "se"
	case RotationSouthWest:
		return "sw"
	default:
		return fmt.Sprintf("rotation(%d)", int(r))
	}
}

// Valid reports whether r is a known facing.
func (r Rotation) Valid() bool {
	return r >= RotationNorthWest && r <= RotationSouthWest
}

// Sprite center at the large tier.
const (
	CenterX = 68
	CenterY = 348
)

// Rect is a pixel rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the rectangle width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// TightBounds returns the smallest rectangle containing every non-zero alpha
// sample of a w×h plane, or the zero Rect when there is none.
func TightBounds(alpha []byte, w, h int) Rect {
	left, top, right, bottom := w, h, 0, 0
	for y := 0; y < h; y++ {
		row := alpha[y*w : (y+1)*w]
		for x, a := range row {
			if a == 0 {
				continue
			}
			left = min(left, x)
			right = max(right, x+1)
			top = min(top, y)
			bottom = max(bottom, y+1)
		}
	}
	if right == 0 {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// DrawOffsets position a frame relative to the sprite center.
type DrawOffsets struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	XFlipped int `json:"x_flipped"`
}

// Offsets computes the draw offsets of a frame cropped to bounds out of an
// image imageWidth pixels wide rendered at zoom.
func Offsets(bounds Rect, imageWidth int, zoom Zoom) DrawOffsets {
	cx, cy := CenterX/zoom.Scale(), CenterY/zoom.Scale()
	return DrawOffsets{
		X:        bounds.Left - cx,
		Y:        bounds.Bottom - cy,
		XFlipped: (imageWidth - bounds.Right) - cx,
	}
}
