package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

// DropFolder reports files created in a directory as dropped paths.
// Files are collected until no new activity has been seen for the
// debounce interval, so copies finish before they are decoded; each
// collected batch is delivered as one frame in creation order.
type DropFolder struct {
	dir      string
	debounce time.Duration
	log      *zap.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending []string
	queued  map[string]bool
	timer   *time.Timer
	deliver func([]domain.DroppedPath)

	done     chan struct{}
	stopOnce sync.Once
}

// NewDropFolder creates a watcher for dir
func NewDropFolder(dir string, debounce time.Duration, log *zap.Logger) (*DropFolder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DropFolder{
		dir:      dir,
		debounce: debounce,
		log:      log,
		watcher:  fsWatcher,
		queued:   make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// Dir returns the watched directory
func (d *DropFolder) Dir() string {
	return d.dir
}

// Start begins watching; deliver is called from a background goroutine
func (d *DropFolder) Start(deliver func([]domain.DroppedPath)) error {
	d.deliver = deliver

	if err := d.watcher.Add(d.dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", d.dir, err)
	}
	d.log.Info("Watching drop folder", zap.String("dir", d.dir))

	go d.processEvents()
	return nil
}

// Stop stops the watcher. Pending files that have not been flushed are
// discarded.
func (d *DropFolder) Stop() error {
	var err error
	d.stopOnce.Do(func() {
		close(d.done)
		d.mu.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.mu.Unlock()
		err = d.watcher.Close()
	})
	return err
}

func (d *DropFolder) processEvents() {
	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			d.handleEvent(event)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("Watcher error", zap.Error(err))

		case <-d.done:
			return
		}
	}
}

func (d *DropFolder) handleEvent(event fsnotify.Event) {
	if isTemporary(event.Name) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case event.Has(fsnotify.Create):
		if !d.queued[event.Name] {
			d.queued[event.Name] = true
			d.pending = append(d.pending, event.Name)
			d.log.Debug("File dropped into folder", zap.String("path", event.Name))
		}
	case event.Has(fsnotify.Write):
		// Only writes to files still being copied in matter. Anything else
		// is most likely our own PNG overwrite.
		if !d.queued[event.Name] {
			return
		}
	default:
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

func (d *DropFolder) flush() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.queued = make(map[string]bool)
	d.timer = nil
	d.mu.Unlock()

	select {
	case <-d.done:
		return
	default:
	}

	if len(batch) == 0 || d.deliver == nil {
		return
	}

	dropped := make([]domain.DroppedPath, len(batch))
	for i, p := range batch {
		dropped[i] = domain.NewDroppedPath(p)
	}
	d.deliver(dropped)
}

// isTemporary filters editor swap files and partial downloads
func isTemporary(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return true
	}
	return false
}
