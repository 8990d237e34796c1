package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch signals when another process rewrites the medicine blob. Writes
// made through this store are ignored. The channel is closed when ctx is
// done or the watcher fails; signals are dropped rather than blocking if
// the consumer is behind.
func (s *DiskStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", s.basePath, err)
	}

	changes := make(chan struct{}, 1)
	target := filepath.Join(s.basePath, MedicinesKey)

	var (
		closeMu sync.Mutex
		closed  bool
	)

	go func() {
		defer func() {
			closeMu.Lock()
			closed = true
			close(changes)
			closeMu.Unlock()
		}()
		defer watcher.Close()

		send := func() {
			data, err := os.ReadFile(target)
			if err == nil && s.ownWrite(data) {
				return
			}
			closeMu.Lock()
			defer closeMu.Unlock()
			if closed {
				return
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		}

		throttle := newDebouncer(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("store watcher: %v", err)
				throttle.Trigger(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				s.log.Debug("store watcher: %s", evt)
				throttle.Trigger(send)
			}
		}
	}()

	return changes, nil
}

// debouncer collapses bursts of triggers into one call after a quiet period.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
