package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.qml")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	calls := make(chan string, 8)
	w, err := New(path, 50*time.Millisecond, func(p string) { calls <- p })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Initial pass fires unconditionally.
	select {
	case p := <-calls:
		require.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial callback")
	}

	// A change to an unrelated file in the same directory is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	select {
	case p := <-calls:
		require.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after change")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.qml")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	calls := make(chan string, 64)
	w, err := New(path, 200*time.Millisecond, func(p string) { calls <- p })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx) //nolint:errcheck

	<-calls // initial pass

	// A burst of writes inside the debounce window coalesces to one call.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("burst"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after burst")
	}
	select {
	case <-calls:
		t.Fatal("burst produced more than one callback")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "style.qml"), 0, func(string) {})
	require.Error(t, err)
}
