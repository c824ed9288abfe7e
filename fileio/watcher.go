package fileio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/fsnotify/fsnotify"
)

// SessionWatcher monitors the provider session roots and reports changed
// files so the parse cache can drop stale entries between TUI cycles.
type SessionWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool

	debounce time.Duration
	timers   map[string]*time.Timer
}

// NewSessionWatcher watches every existing root directory. Missing roots are
// skipped; the watcher is still usable when none of them exist yet.
func NewSessionWatcher(roots []string, onChange func(path string)) (*SessionWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &SessionWatcher{
		watcher:  fsWatcher,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		debounce: 100 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
	}

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := fsWatcher.Add(root); err != nil {
			logging.LogWarnf("failed to watch %s: %v", root, err)
		}
	}

	return w, nil
}

// Start begins delivering change notifications.
func (w *SessionWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

// Stop halts the watcher and releases the underlying fsnotify handle.
func (w *SessionWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.watcher.Close()
}

func (w *SessionWatcher) loop() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.notifyDebounced(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.LogWarnf("session watcher error: %v", err)
		}
	}
}

// notifyDebounced coalesces event bursts per path. Editors and assistants
// often append to session logs many times per second.
func (w *SessionWatcher) notifyDebounced(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.onChange(path)
	})
}
