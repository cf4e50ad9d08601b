package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/wavemark/internal/library"
)

// Event kinds passed to EventCallback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// settleDelay is how long a file must stay quiet before its change is
// reported; copies and encoder output arrive as many small writes.
const settleDelay = 200 * time.Millisecond

// EventCallback is called once a library file change has settled.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the library root and reports audio
// file changes until ctx is cancelled. Removed or renamed files also have
// their cache rows dropped.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, db *DB, lib library.Provider, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := lib.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func(rel, kind string) {
		// A create followed by writes is still a create.
		if prev, ok := pending[rel]; !ok || prev != KindCreated || kind == KindDeleted {
			pending[rel] = kind
		}
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			for rel, kind := range pending {
				if kind == KindDeleted {
					if delErr := db.DeleteTrack(rel); delErr != nil {
						logger.Warn("watcher: drop cache failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					}
				}
				logger.Debug("watcher: changed", slog.String("path", rel), slog.String("op", kind))
				if cb != nil {
					cb(kind, rel)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !library.IsAudio(absPath) {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				schedule(rel, KindCreated)
			case ev.Op&fsnotify.Write != 0:
				schedule(rel, KindUpdated)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path; the new one arrives as Create.
				schedule(rel, KindDeleted)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
