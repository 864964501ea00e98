package driven

import (
	"context"
	"time"
)

// Sleeper pauses the caller between cosmetic upload stages.
type Sleeper interface {
	// Sleep waits for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// FileWatcher reports modifications to a local file.
type FileWatcher interface {
	// Watch emits on the returned channel whenever path is written or
	// recreated. The channel is closed when ctx is done.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)
}
