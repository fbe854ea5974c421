package load

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports rewrites of schema documents so callers can
// re-validate on change. Close releases the underlying file watcher.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch invokes fn with the affected path whenever a file under one of
// the given paths is created or written. Callbacks run on the watcher
// goroutine; fn must not block for long.
func Watch(fn func(path string), paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("load: start watcher: %w", err)
	}
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, fmt.Errorf("load: watch %s: %w", p, err)
		}
	}
	w := &Watcher{fw: fw, done: make(chan struct{})}
	go w.run(fn)
	return w, nil
}

func (w *Watcher) run(fn func(string)) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				fn(ev.Name)
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching and waits for the callback goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
