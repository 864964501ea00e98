package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// defaultSettle is how long writes must stop before a re-upload starts.
const defaultSettle = 500 * time.Millisecond

// WatchService re-uploads a document whenever it changes on disk.
type WatchService struct {
	watcher driven.FileWatcher
	upload  *UploadService
	settle  time.Duration
}

// NewWatchService creates a new watch service.
func NewWatchService(watcher driven.FileWatcher, upload *UploadService) *WatchService {
	return &WatchService{
		watcher: watcher,
		upload:  upload,
		settle:  defaultSettle,
	}
}

// WithSettle overrides the debounce interval (for testing).
func (w *WatchService) WithSettle(d time.Duration) *WatchService {
	w.settle = d
	return w
}

// Watch uploads path once, then again after each burst of changes, until
// ctx is done. Attempts never overlap.
func (w *WatchService) Watch(
	ctx context.Context,
	path string,
	listener domain.ProgressListener,
	onResult func(domain.IndexState, error),
) error {
	if w.watcher == nil || w.upload == nil {
		return domain.ErrServiceUnavailable
	}

	changes, err := w.watcher.Watch(ctx, path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.attempt(ctx, path, listener, onResult)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("watch: %s changed", path)
			settle = time.After(w.settle)
		case <-settle:
			settle = nil
			w.attempt(ctx, path, listener, onResult)
		}
	}
}

func (w *WatchService) attempt(
	ctx context.Context,
	path string,
	listener domain.ProgressListener,
	onResult func(domain.IndexState, error),
) {
	state, err := w.upload.UploadAndActivate(ctx, path, listener)
	if errors.Is(err, context.Canceled) {
		return
	}
	if onResult != nil {
		onResult(state, err)
	}
}
