// Package watch runs a callback whenever a directory's contents settle
// after a change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/logger"
)

// Debounce collects values from in and emits them as one batch once no new
// value has arrived for delay. A pending batch is flushed when in closes,
// and then the output closes.
func Debounce(in <-chan string, delay time.Duration) <-chan []string {
	out := make(chan []string, 1)
	go func() {
		defer close(out)
		var pending []string
		seen := make(map[string]bool)
		timer := time.NewTimer(delay)
		if !timer.Stop() {
			<-timer.C
		}
		for {
			select {
			case v, ok := <-in:
				if !ok {
					if len(pending) > 0 {
						out <- pending
					}
					return
				}
				if !seen[v] {
					seen[v] = true
					pending = append(pending, v)
				}
				timer.Reset(delay)
			case <-timer.C:
				if len(pending) > 0 {
					out <- pending
				}
				pending = nil
				seen = make(map[string]bool)
			}
		}
	}()
	return out
}

// Dir watches dir and calls fn with the changed paths each time changes
// stop arriving for delay. dir may be deleted and recreated while watched,
// as happens when a build starts from a clean directory. Dir returns when
// ctx is done, or with an error if watching cannot start.
func Dir(ctx context.Context, dir string, delay time.Duration, fn func(ctx context.Context, changed []string)) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	parent := filepath.Dir(abs)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(parent); err != nil {
		return fmt.Errorf("watching %s: %w", parent, err)
	}
	if _, err := os.Stat(abs); err == nil {
		if err := fw.Add(abs); err != nil {
			return fmt.Errorf("watching %s: %w", abs, err)
		}
	}
	logger.Log.Info("watching", zap.String("dir", abs))

	raw := make(chan string)
	batches := Debounce(raw, delay)
	defer func() {
		close(raw)
		for range batches {
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(abs, ev.Name) {
				continue
			}
			if ev.Name == abs && ev.Op.Has(fsnotify.Create) {
				if err := fw.Add(abs); err != nil {
					logger.Log.Warn("failed to rewatch directory", zap.String("dir", abs), zap.Error(err))
				}
			}
			logger.Log.Debug("change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			for sent := false; !sent; {
				select {
				case raw <- ev.Name:
					sent = true
				case changed := <-batches:
					fn(ctx, changed)
				case <-ctx.Done():
					return nil
				}
			}

		case changed := <-batches:
			fn(ctx, changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether path is dir itself or directly inside it.
func relevant(dir, path string) bool {
	return path == dir || filepath.Dir(path) == dir
}
