package ports

import (
	"image"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

// ImageCodec defines the port for reading and writing image files
type ImageCodec interface {
	// Decode reads the file at path, detecting the format from its contents
	Decode(path string) (image.Image, error)

	// Probe reads only the header of the file at path and returns its size
	Probe(path string) (domain.Dimensions, error)

	// EncodePNG overwrites path with img encoded as PNG, whatever the
	// original container was
	EncodePNG(path string, img image.Image) error
}

// Resampler defines the port for producing an image of exact dimensions
type Resampler interface {
	// Resample returns img scaled to exactly size, ignoring aspect ratio
	Resample(img image.Image, size domain.Dimensions) image.Image
}

// PathSource defines the port for anything that delivers dropped paths
// outside of the terminal's own paste events
type PathSource interface {
	// Start begins delivering batches; each batch is one frame
	Start(deliver func([]domain.DroppedPath)) error

	// Stop releases the source
	Stop() error
}
