// Package watch re-runs a generation function whenever files under the
// watched directories change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doxyman/internal/logfields"
)

// Runner is invoked after each debounced batch of filesystem events.
type Runner func() error

// Watch blocks until ctx is cancelled, invoking fn after changes under
// dirs. Event bursts within the debounce window coalesce into a single
// run; runs never overlap because Watch itself is fully sequential.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, fn Runner) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			slog.Debug("Change detected", logfields.Path(ev.Name))
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timer.C:
			if err := fn(); err != nil {
				slog.Error("Regeneration failed", logfields.Error(err))
			}
		}
	}
}
