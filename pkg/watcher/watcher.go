package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/emit-analyzer/pkg/logging"
)

// manifestSuffix matches the sidecar manifests the semantic frontend writes.
const manifestSuffix = ".sem.json"

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeManifest ChangeType = iota // manifest written or created
	ChangeTypeRemoval                    // manifest removed or renamed away
)

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a workspace for analysis manifest changes
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	workspace string
	events    chan ChangeEvent
	done      chan struct{}
	mu        sync.Mutex
}

// NewFileWatcher creates a new file system watcher for a workspace root
func NewFileWatcher(workspace string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:   watcher,
		workspace: workspace,
		events:    make(chan ChangeEvent, 100),
		done:      make(chan struct{}),
	}

	return fw, nil
}

// Start begins watching for manifest changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watchWorkspaceDirs(); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}

	logging.Info("started watching workspace", "path", fw.workspace)

	go fw.processEvents(ctx)

	return nil
}

// watchWorkspaceDirs watches every directory under the workspace root, since
// fsnotify watches are not recursive. Directories created later are picked up
// from their create events.
func (fw *FileWatcher) watchWorkspaceDirs() error {
	var count int

	err := filepath.Walk(fw.workspace, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); strings.HasPrefix(name, ".") && path != fw.workspace {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk workspace: %w", err)
	}

	logging.Info("monitoring directories for manifests", "count", count)
	return nil
}

// processEvents processes file system events and batches them by type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	var changed []string
	var removed []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(changed) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeManifest,
				Paths:     changed,
				Timestamp: time.Now(),
			}
			changed = nil
		}
		if len(removed) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeRemoval,
				Paths:     removed,
				Timestamp: time.Now(),
			}
			removed = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			close(fw.events)
			close(fw.done)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// New directories must be added to the watch set themselves.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.watcher.Add(event.Name); err != nil {
						logging.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !strings.HasSuffix(event.Name, manifestSuffix) {
				continue
			}

			if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				removed = append(removed, event.Name)
			} else {
				changed = append(changed, event.Name)
			}
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	close(fw.done)
	return fw.watcher.Close()
}
