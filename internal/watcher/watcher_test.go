package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestDefinitionFilter(t *testing.T) {
	assert.True(t, DefinitionFilter("designs/newsroom.yml"))
	assert.True(t, DefinitionFilter("schemas/provider.yaml"))
	assert.False(t, DefinitionFilter("designs/readme.md"))
	assert.False(t, DefinitionFilter("designs/newsroom.yml~"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("designs/newsroom.yml"))
	assert.False(t, NoHiddenFilter("designs/.newsroom.yml.swp"))
}

func TestDebouncerDeduplicatesByPath(t *testing.T) {
	d := &debouncer{
		delay:   time.Millisecond,
		events:  make(chan ChangeEvent, 10),
		output:  make(chan []ChangeEvent, 1),
		pending: make([]ChangeEvent, 0),
	}

	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "a.yml"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.yml"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "b.yml"})

	select {
	case events := <-d.output:
		assert.Len(t, events, 2)
		byPath := make(map[string]ChangeEvent)
		for _, e := range events {
			byPath[e.Path] = e
		}
		assert.Equal(t, EventTypeModified, byPath["a.yml"].Type)
		assert.Equal(t, EventTypeModified, byPath["b.yml"].Type)
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestWatcherDetectsDefinitionChange(t *testing.T) {
	dir := t.TempDir()

	w, err := NewDefinitionWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	w.AddFilter(DefinitionFilter)
	w.AddFilter(NoHiddenFilter)

	var mutex sync.Mutex
	var received []ChangeEvent
	w.AddHandler(func(events []ChangeEvent) error {
		mutex.Lock()
		defer mutex.Unlock()
		received = append(received, events...)
		return nil
	})

	require.NoError(t, w.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	path := filepath.Join(dir, "newsroom.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: newsroom\n"), 0o644))

	// Ignored by the definition filter
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		for _, e := range received {
			if e.Path == path {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	mutex.Lock()
	defer mutex.Unlock()
	for _, e := range received {
		assert.NotEqual(t, "notes.txt", filepath.Base(e.Path))
	}
}
