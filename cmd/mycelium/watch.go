package main

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchAndRerun re-invokes run whenever an entry directly inside repoPath
// is written, created, removed or renamed, debounced by 300ms so a burst
// of saves (editors writing temp files, git checkouts) triggers one
// re-analysis instead of many. Only the top-level directory is watched:
// changes inside its subdirectories do not trigger a re-run. This is CLI
// ambient behaviour layered on top of the single-shot pipeline, not a
// pipeline phase itself.
func watchAndRerun(repoPath string, logger *zap.SugaredLogger, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, repoPath); err != nil {
		return err
	}

	var debounce *time.Timer
	events := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case events <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", "error", err)
		case <-events:
			logger.Infow("repository changed, re-analyzing")
			if err := run(); err != nil {
				logger.Errorw("re-analysis failed", "error", err)
			}
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return watcher.Add(root)
}
