package codec

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// WebP is decode-only; imaging already registers bmp and tiff
	_ "golang.org/x/image/webp"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

// Format describes one container the codec can read
type Format struct {
	Name       string
	Extensions []string
	Encodable  bool
}

// Formats lists every container recognized on decode
var Formats = []Format{
	{Name: "PNG", Extensions: []string{".png"}, Encodable: true},
	{Name: "JPEG", Extensions: []string{".jpg", ".jpeg"}, Encodable: true},
	{Name: "GIF", Extensions: []string{".gif"}, Encodable: true},
	{Name: "BMP", Extensions: []string{".bmp"}, Encodable: true},
	{Name: "TIFF", Extensions: []string{".tif", ".tiff"}, Encodable: true},
	{Name: "WebP", Extensions: []string{".webp"}, Encodable: false},
}

// HasImageExtension reports whether path ends in a known image extension.
// Only used to narrow candidate lists; decoding never trusts the extension.
func HasImageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		for _, e := range f.Extensions {
			if ext == e {
				return true
			}
		}
	}
	return false
}

// ImagingCodec implements the ImageCodec port using disintegration/imaging
type ImagingCodec struct {
	log *zap.Logger
}

// NewImagingCodec creates a new imaging-backed codec
func NewImagingCodec(log *zap.Logger) *ImagingCodec {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImagingCodec{log: log}
}

// Decode opens path and decodes it
func (c *ImagingCodec) Decode(path string) (image.Image, error) {
	return imaging.Open(path)
}

// Probe decodes only the image header
func (c *ImagingCodec) Probe(path string) (domain.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dimensions{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.Dimensions{}, err
	}
	return domain.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// EncodePNG encodes img in memory first, then overwrites path in place.
// The file is truncated and rewritten rather than replaced, so its
// permissions are respected and a read-only file fails to save.
func (c *ImagingCodec) EncodePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}

	c.log.Debug("PNG written",
		zap.String("path", path),
		zap.Int("bytes", buf.Len()))

	return nil
}
