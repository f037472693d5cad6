package casestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback is called after an external write to the ledger document is
// detected.
type WatchCallback func()

// Watch starts an fsnotify watcher on the directory holding the ledger
// document and reports writes that did not come from ledger until ctx is
// cancelled. Another process rewriting the document silently discards this
// process's view of the collection (last writer wins on the whole
// document); detection is all this does — the next ledger operation reads
// the new content anyway.
//
// Events are debounced because an atomic replace (create, write, rename)
// emits several events per logical write.
func Watch(ctx context.Context, ledger *Ledger, path string, logger *slog.Logger, cb WatchCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("ledger watcher: started", slog.String("path", path))

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleCheck := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(200 * time.Millisecond)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("ledger watcher: stopped")
			return nil

		case <-settleCh:
			if externalChange(ledger, path) {
				logger.Warn("ledger watcher: collection overwritten by another writer",
					slog.String("path", path))
				if cb != nil {
					cb()
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleCheck()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("ledger watcher: error", slog.String("error", err.Error()))
		}
	}
}

// externalChange reads the document on disk and compares it against the
// checksum of the ledger's own last write.
func externalChange(ledger *Ledger, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) != ledger.LastChecksum()
}
