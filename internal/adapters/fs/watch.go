package fs

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/swingcam/internal/ports"
)

// DefaultRescanInterval is how often a watched directory is rescanned even
// without filesystem events. Some filesystems (network mounts, overlayfs)
// deliver no inotify events at all.
const DefaultRescanInterval = 500 * time.Millisecond

// dirWatcher calls scan whenever something in dir changes, and at least
// every rescan interval.
type dirWatcher struct {
	dir     string
	rescan  time.Duration
	watcher *fsnotify.Watcher
	logger  ports.Logger
	match   func(fsnotify.Event) bool
}

func newDirWatcher(dir string, rescan time.Duration, match func(fsnotify.Event) bool, logger ports.Logger) (*dirWatcher, error) {
	if rescan <= 0 {
		rescan = DefaultRescanInterval
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &dirWatcher{dir: dir, rescan: rescan, watcher: w, logger: logger, match: match}, nil
}

// run blocks until ctx ends or the watcher is closed.
func (d *dirWatcher) run(ctx context.Context, scan func()) {
	ticker := time.NewTicker(d.rescan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if d.match != nil && !d.match(event) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			scan()

		case <-ticker.C:
			scan()

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watch error", ports.String("dir", d.dir), ports.Err(err))
		}
	}
}

func (d *dirWatcher) close() error {
	return d.watcher.Close()
}
