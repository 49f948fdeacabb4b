// Package watch re-runs reconciliation when prompt files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/reconcile"
)

// Watcher triggers full reconciliation passes on file store changes.
type Watcher struct {
	engine *reconcile.Engine
	root   string

	// Debounce is the quiet period that batches editor write bursts
	// (write + rename + chmod) into one sync pass.
	Debounce time.Duration
	// OnSync, when set, receives the report of each completed pass.
	OnSync func(*reconcile.SyncReport)
	// OnError, when set, receives per-pass failures. The watcher keeps
	// running; a transient error on one pass should not stop the next.
	OnError func(error)
}

// New creates a watcher over the prompt files directory.
func New(engine *reconcile.Engine, files *filestore.Store) *Watcher {
	return &Watcher{
		engine:   engine,
		root:     files.Root(),
		Debounce: 500 * time.Millisecond,
	}
}

// Run watches until the context is canceled. It performs one initial sync
// pass, then one pass per debounced burst of relevant filesystem events.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}

	w.sync()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// A fired-but-unconsumed timer holds a stale tick in its
			// channel; a fresh timer cannot.
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError(err)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.sync()
		}
	}
}

func (w *Watcher) sync() {
	report, err := w.engine.SyncAll()
	if err != nil {
		if w.OnError != nil {
			w.OnError(err)
		}
		return
	}
	if w.OnSync != nil {
		w.OnSync(report)
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), filestore.Extension) {
		return false
	}
	// Ignore atomic-write temp files.
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}
