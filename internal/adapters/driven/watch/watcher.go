// Package watch reports modifications to a local file using fsnotify.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher watches the parent directory of a file, so editors that save by
// writing a temp file and renaming it over the original are still seen.
type Watcher struct{}

// NewWatcher creates a file watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch emits whenever path is written or recreated until ctx is done.
// Bursts are coalesced: at most one notification is pending at a time.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Debug("watching %s", target)

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !relevant(event, target) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", target, err)
			}
		}
	}()
	return out, nil
}

// relevant reports whether event means target now has new content.
// Removals and renames are ignored; the recreate that follows is not.
func relevant(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
