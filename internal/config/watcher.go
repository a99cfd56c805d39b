// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the freshly reloaded Config after the
// watched file settles for one debounce window.
type ChangeHandler func(Config)

// Watcher reloads the project config file whenever it changes on disk,
// debouncing bursts of writes (many editors write a file as
// truncate-then-rewrite, which otherwise fires two events per save).
//
// Watching the config file's directory rather than the file itself
// survives editors that replace the file via rename instead of in-place
// write, which a direct file watch would silently stop following.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handler  ChangeHandler
	debounce time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// DefaultDebounce coalesces the burst of events an editor's save-as-rename
// produces into a single reload.
const DefaultDebounce = 100 * time.Millisecond

// NewWatcher builds a Watcher for the config file at path. The handler is
// invoked from a single goroutine, never concurrently with itself.
func NewWatcher(path string, handler ChangeHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		path: path, watcher: fsw, handler: handler,
		debounce: DefaultDebounce, done: make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; reload events are
// delivered asynchronously to the handler until ctx is canceled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop halts the watcher and releases its fsnotify handle.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			return // keep the last-known-good config; next event retries
		}
		if w.handler != nil {
			w.handler(cfg)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			reload()
			timer = nil
			timerC = nil
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
