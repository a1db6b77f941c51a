package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	path  string
	count atomic.Int32
}

func (r *countingReloader) Path() string { return r.path }

func (r *countingReloader) Reload() error {
	r.count.Add(1)
	return nil
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeSample(t)
	r := &countingReloader{path: path}

	w, err := NewWatcher(r, 50*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte(sampleYAML+"\n"), 0o600))
	require.Eventually(t, func() bool { return r.count.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	path := writeSample(t)
	r := &countingReloader{path: path}

	w, err := NewWatcher(r, 20*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(0), r.count.Load())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(&countingReloader{path: writeSample(t)}, 0)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
