package fileio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWatcherReportsWrites(t *testing.T) {
	root := t.TempDir()

	var mu sync.Mutex
	changed := map[string]int{}
	watcher, err := NewSessionWatcher([]string{root}, func(path string) {
		mu.Lock()
		changed[path]++
		mu.Unlock()
	})
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	path := filepath.Join(root, "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return changed[path] > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSessionWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()

	var mu sync.Mutex
	notifications := 0
	watcher, err := NewSessionWatcher([]string{root}, func(path string) {
		mu.Lock()
		notifications++
		mu.Unlock()
	})
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	path := filepath.Join(root, "burst.jsonl")
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return notifications > 0
	}, 3*time.Second, 50*time.Millisecond)

	mu.Lock()
	got := notifications
	mu.Unlock()
	assert.Less(t, got, 10)
}

func TestSessionWatcherMissingRoots(t *testing.T) {
	watcher, err := NewSessionWatcher([]string{filepath.Join(t.TempDir(), "absent")}, func(string) {})
	require.NoError(t, err)
	watcher.Start()
	watcher.Stop()

	// Stop is idempotent.
	watcher.Stop()
}
