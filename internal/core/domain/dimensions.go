package domain

import (
	"fmt"
	"image"
)

// BlockSize is the grid every output dimension is aligned to.
const BlockSize = 4

// Dimensions is an image size in pixels
type Dimensions struct {
	Width  int
	Height int
}

// DimensionsOf returns the pixel size of img
func DimensionsOf(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Align returns the largest multiple of 4 that is <= n.
// Axes shorter than 4 pixels are raised to 4 rather than truncated to zero.
// 801 -> 800, 800 -> 800, 3 -> 4
func Align(n int) int {
	aligned := n - n%BlockSize
	if aligned > 0 {
		return aligned
	}
	return BlockSize
}

// IsAligned reports whether n is already a positive multiple of 4
func IsAligned(n int) bool {
	return Align(n) == n
}

// Aligned returns the aligned pair and whether it differs from d
func (d Dimensions) Aligned() (Dimensions, bool) {
	aligned := Dimensions{
		Width:  Align(d.Width),
		Height: Align(d.Height),
	}
	return aligned, aligned != d
}

// IsAligned reports whether both axes are already multiples of 4
func (d Dimensions) IsAligned() bool {
	return IsAligned(d.Width) && IsAligned(d.Height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
