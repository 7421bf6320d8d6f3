package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of file events, such as an editor's
// write-then-rename save, into one re-run.
const watchDebounce = 100 * time.Millisecond

// Watch re-runs analysis whenever a Go source file or go.mod under the
// project root changes, calling onReport with each outcome. It blocks until
// ctx is cancelled. The initial run is the caller's job.
func (e *Engine) Watch(ctx context.Context, patterns []string, onReport func(*Report, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, e.cfg.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", e.cfg.Dir, err)
	}
	e.logger.Info("watching for changes", "dir", e.cfg.Dir)

	var (
		debounce *time.Timer
		fire     <-chan time.Time
		changed  = make(map[string]bool)
	)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = watchDirRecursive(watcher, event.Name)
			}
			if !isRelevant(event) {
				continue
			}
			changed[filepath.Dir(event.Name)] = true
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			e.invalidate(changed)
			changed = make(map[string]bool)

			e.logger.Debug("change detected, re-analyzing")
			report, err := e.Run(ctx, patterns)
			if ctx.Err() != nil {
				return nil
			}
			onReport(report, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}

// invalidate drops cached compilations of packages in changed directories.
// A go.mod change can affect anything, so the module root drops everything.
func (e *Engine) invalidate(changedDirs map[string]bool) {
	if changedDirs[e.cfg.Dir] {
		e.provider.InvalidateAll()
		return
	}
	for dir := range changedDirs {
		e.provider.InvalidateDir(dir)
	}
}

func isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return strings.HasSuffix(base, ".go") || base == "go.mod" || base == "go.sum"
}

// watchDirRecursive adds a directory and all subdirectories to the watcher,
// skipping hidden directories, vendor and testdata.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
