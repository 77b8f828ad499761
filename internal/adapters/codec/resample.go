package codec

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

// resampleFilter is the kernel used for every resize. Gaussian gives a
// smooth downscale; it is not configurable.
var resampleFilter = imaging.Gaussian

// GaussianResampler implements the Resampler port
type GaussianResampler struct{}

// NewGaussianResampler creates a resampler using the Gaussian filter
func NewGaussianResampler() *GaussianResampler {
	return &GaussianResampler{}
}

// Resample scales both axes independently to exactly size
func (GaussianResampler) Resample(img image.Image, size domain.Dimensions) image.Image {
	return imaging.Resize(img, size.Width, size.Height, resampleFilter)
}
