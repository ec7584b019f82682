package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := &Watcher{
		Dir:      dir,
		Debounce: 200 * time.Millisecond,
		OnChange: func() { calls.Add(1) },
	}
	stop := startWatcher(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.txt"), []byte(strings.Repeat("x", i+1)), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, stop())
}

func TestWatcher_Ignore(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := &Watcher{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func() { calls.Add(1) },
		Ignore: func(path string) bool {
			return filepath.Base(path) != "otu_table.txt"
		},
	}
	stop := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"), []byte("{}"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "otu_table.txt"), []byte("SampleID\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.NoError(t, stop())
}

func TestWatcher_Errors(t *testing.T) {
	tests := map[string]struct {
		w       *Watcher
		wantErr string
	}{
		"missing callback": {
			w:       &Watcher{Dir: t.TempDir()},
			wantErr: "OnChange is required",
		},
		"missing directory": {
			w:       &Watcher{Dir: filepath.Join(t.TempDir(), "absent"), OnChange: func() {}},
			wantErr: "watching",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.w.Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatcher_DebugLog(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	w := &Watcher{Dir: dir, OnChange: func() {}, Debug: true, DebugWriter: &buf}
	stop := startWatcher(t, w)
	assert.NoError(t, stop())
	assert.Contains(t, buf.String(), "[DEBUG][Watcher] watching "+dir)
}
