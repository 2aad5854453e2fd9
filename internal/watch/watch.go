// Package watch re-runs a task when any of a fixed set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const DefaultDebounce = 500 * time.Millisecond

type Watcher struct {
	Files    []string
	Debounce time.Duration
	// OnChange runs after a burst of changes has settled. Errors are logged
	// and watching continues.
	OnChange func(ctx context.Context) error
}

// Run watches the parent directories of Files until ctx is done. Editors
// often replace files by rename, so directories are watched rather than
// the files themselves.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsWatcher.Close()

	watched := make(map[string]bool, len(w.Files))
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Debugf("Watching folder: %s", dir)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	log.Infof("[*] Watching %d files for changes (Ctrl+C to stop)", len(watched))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || !watched[filepath.Clean(event.Name)] {
				continue
			}
			log.Debugf("Changed: %s (%s)", event.Name, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("[!] Watcher error")

		case <-trigger:
			log.Info("[*] Change detected, re-running...")
			if err := w.OnChange(ctx); err != nil {
				log.WithError(err).Error("[-] Re-run failed")
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0
}
