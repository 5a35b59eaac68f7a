package configstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher observes a FileMedium directory and re-emits records rewritten by
// another process as change events on the store, so a second window picks up
// preference changes without restarting.
type Watcher struct {
	store  *Store
	medium *FileMedium
	fs     *fsnotify.Watcher
}

// NewWatcher creates a watcher bound to the store's file medium.
func NewWatcher(store *Store, medium *FileMedium) *Watcher {
	return &Watcher{store: store, medium: medium}
}

// Start begins watching until ctx is cancelled. The medium root and every
// existing area directory are watched; area directories created later are
// picked up from their create events.
func (w *Watcher) Start(ctx context.Context) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fs = fs

	if err := fs.Add(w.medium.Dir); err != nil {
		fs.Close()
		return err
	}
	entries, err := os.ReadDir(w.medium.Dir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				// Best effort; a vanished subdir re-adds itself on create.
				_ = fs.Add(filepath.Join(w.medium.Dir, e.Name()))
			}
		}
	}

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.fs.Add(ev.Name)
			return
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !strings.HasSuffix(ev.Name, ".yaml") {
		return
	}
	area := filepath.Base(filepath.Dir(ev.Name))
	key := strings.TrimSuffix(filepath.Base(ev.Name), ".yaml")
	rec, found, err := w.medium.Read(ctx, area, key)
	if err != nil || !found {
		return
	}
	w.store.emit(ChangeEvent{Key: key, Area: area, New: rec})
}
