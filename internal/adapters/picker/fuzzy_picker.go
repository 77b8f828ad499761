package picker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/kamal-hamza/imgresize/internal/adapters/codec"
	"github.com/kamal-hamza/imgresize/internal/core/domain"
	"github.com/kamal-hamza/imgresize/internal/core/ports"
)

// ErrNoImages is returned when the picker directory holds no image files
var ErrNoImages = errors.New("no image files found")

// FuzzyPicker lets the user multi-select image files from a directory.
// It satisfies bubbletea's ExecCommand so the TUI can hand over the
// terminal while the finder runs.
type FuzzyPicker struct {
	dir      string
	codec    ports.ImageCodec
	selected []string
}

// NewFuzzyPicker creates a picker rooted at dir; an empty dir means the
// working directory
func NewFuzzyPicker(dir string, c ports.ImageCodec) *FuzzyPicker {
	return &FuzzyPicker{dir: dir, codec: c}
}

// Candidates lists the image files directly inside dir, sorted by name.
// An empty dir means the working directory.
func Candidates(dir string) ([]string, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !codec.HasImageExtension(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Run shows the finder. Aborting the finder is not an error; it simply
// selects nothing.
func (p *FuzzyPicker) Run() error {
	p.selected = nil

	files, err := Candidates(p.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		dir, _ := resolveDir(p.dir)
		return fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	idxs, err := fuzzyfinder.FindMulti(
		files,
		func(i int) string { return filepath.Base(files[i]) },
		fuzzyfinder.WithHeader("Select images to align (tab to mark, enter to drop)"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return p.describe(files[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return fmt.Errorf("picker failed: %w", err)
	}

	for _, i := range idxs {
		p.selected = append(p.selected, files[i])
	}
	return nil
}

// Selected returns the files chosen by the last Run
func (p *FuzzyPicker) Selected() []domain.DroppedPath {
	out := make([]domain.DroppedPath, len(p.selected))
	for i, path := range p.selected {
		out[i] = domain.NewDroppedPath(path)
	}
	return out
}

// The finder opens the controlling terminal itself, so the streams
// bubbletea hands over are not needed.
func (p *FuzzyPicker) SetStdin(io.Reader)  {}
func (p *FuzzyPicker) SetStdout(io.Writer) {}
func (p *FuzzyPicker) SetStderr(io.Writer) {}

// describe renders the preview pane for one file
func (p *FuzzyPicker) describe(path string) string {
	header := filepath.Base(path)

	size, err := p.codec.Probe(path)
	if err != nil {
		return fmt.Sprintf("%s\n\nUnreadable: %v", header, err)
	}

	if size.IsAligned() {
		return fmt.Sprintf("%s\n\nSize: %s\nAlready a multiple of 4", header, size)
	}
	target, _ := size.Aligned()
	return fmt.Sprintf("%s\n\nSize: %s\nAligned: %s", header, size, target)
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
