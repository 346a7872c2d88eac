package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long watch waits after the last change before rendering.
// Editors often save a file in several writes.
const settle = 100 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. It watches their
// directories so that files replaced by rename keep being followed.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changed chan string
	errors  chan error
	done    chan struct{}
}

func newFileWatcher(paths []string) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &fileWatcher{
		watcher: watcher,
		files:   map[string]bool{},
		changed: make(chan string),
		errors:  make(chan error),
		done:    make(chan struct{}),
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !fw.files[filepath.Clean(event.Name)] {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					select {
					case fw.changed <- event.Name:
					case <-fw.done:
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case fw.errors <- err:
				case <-fw.done:
					return
				}
			}
		}
	}()
	return fw, nil
}

func (fw *fileWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}

// watch calls onChange after paths change, until ctx is done.
func watch(ctx context.Context, paths []string, log *slog.Logger, onChange func()) error {
	fw, err := newFileWatcher(paths)
	if err != nil {
		return err
	}
	defer fw.Close()

	log.Info("watching for changes", slog.Any("files", paths))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case name := <-fw.changed:
			log.Debug("file changed", slog.String("file", name))
			pending = time.After(settle)
		case <-pending:
			pending = nil
			onChange()
		case err := <-fw.errors:
			log.Warn("watch error", slog.Any("error", err))
		}
	}
}
