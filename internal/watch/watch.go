// Package watch re-runs a callback when files in a submission directory
// change, coalescing bursts of events into a single call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Watcher.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	Dir      string
	Debounce time.Duration

	// OnChange runs after the directory has been quiet for Debounce. Calls
	// never overlap.
	OnChange func()

	// Ignore, if set, filters out events for matching paths, such as a
	// report file written into the watched directory.
	Ignore func(path string) bool

	Debug       bool
	DebugWriter io.Writer
}

func (w *Watcher) debugLog(format string, args ...interface{}) {
	if !w.Debug {
		return
	}
	out := w.DebugWriter
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "[DEBUG][Watcher] "+format+"\n", args...)
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
// Cancellation returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch: OnChange is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}
	w.debugLog("watching %s", w.Dir)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.debugLog("event %s", ev)
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false
			w.OnChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", w.Dir, err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if w.Ignore != nil && w.Ignore(filepath.Clean(ev.Name)) {
		return false
	}
	return true
}
