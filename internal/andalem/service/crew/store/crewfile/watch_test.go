package crewfile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(path string) { changed <- path })
	}()
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "team"+Extension)
	require.NoError(t, WriteFile(path, sampleSession()))

	select {
	case got := <-changed:
		assert.Equal(t, filepath.Clean(path), got)
	case <-ctx.Done():
		t.Fatal("no change notification")
	}
	cancel()
	assert.NoError(t, <-done)
}
