package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

// MockImageCodec is an in-memory implementation of the ImageCodec port
type MockImageCodec struct {
	mu          sync.RWMutex
	images      map[string]image.Image
	decodeErrs  map[string]error
	encodeErrs  map[string]error
	decodePanic map[string]any
	writes      []string
}

// NewMockImageCodec creates an empty mock codec
func NewMockImageCodec() *MockImageCodec {
	return &MockImageCodec{
		images:      make(map[string]image.Image),
		decodeErrs:  make(map[string]error),
		encodeErrs:  make(map[string]error),
		decodePanic: make(map[string]any),
	}
}

// AddImage registers a blank image of the given size at path
func (m *MockImageCodec) AddImage(path string, width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[path] = image.NewNRGBA(image.Rect(0, 0, width, height))
}

// FailDecode makes Decode and Probe return err for path
func (m *MockImageCodec) FailDecode(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodeErrs[path] = err
}

// PanicOnDecode makes Decode panic with v for path
func (m *MockImageCodec) PanicOnDecode(path string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodePanic[path] = v
}

// FailEncode makes EncodePNG return err for path
func (m *MockImageCodec) FailEncode(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encodeErrs[path] = err
}

// Decode returns the registered image for path
func (m *MockImageCodec) Decode(path string) (image.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.decodePanic[path]; ok {
		panic(v)
	}
	if err, ok := m.decodeErrs[path]; ok {
		return nil, err
	}
	img, ok := m.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file or directory", path)
	}
	return img, nil
}

// Probe returns the size of the registered image for path
func (m *MockImageCodec) Probe(path string) (domain.Dimensions, error) {
	img, err := m.Decode(path)
	if err != nil {
		return domain.Dimensions{}, err
	}
	return domain.DimensionsOf(img), nil
}

// EncodePNG replaces the registered image for path
func (m *MockImageCodec) EncodePNG(path string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.encodeErrs[path]; ok {
		return err
	}
	m.images[path] = img
	m.writes = append(m.writes, path)
	return nil
}

// Writes returns the paths written so far, in order
func (m *MockImageCodec) Writes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// Image returns the image currently stored at path
func (m *MockImageCodec) Image(path string) (image.Image, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[path]
	return img, ok
}
