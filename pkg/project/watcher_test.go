package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/composeport/pkg/convert"
)

func newTestWatcher(t *testing.T, outDir string) *Watcher {
	t.Helper()
	l := NewLoader(nil, nil)
	t.Cleanup(func() { l.Close() })

	c, err := convert.New(convert.Options{})
	require.NoError(t, err)

	w, err := NewWatcher(l, c, WatchOptions{OutDir: outDir, DebounceMs: 50}, nil)
	require.NoError(t, err)
	return w
}

func TestWatcher_ReconvertsOnCreate(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	w := newTestWatcher(t, outDir)
	require.NoError(t, w.Start(dir))
	defer w.Stop()

	writeFile(t, dir, "greeting.unit.json", greetingUnit)

	target := filepath.Join(outDir, "greeting.dart")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond, "generated file should appear after debounce")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	w := newTestWatcher(t, outDir)
	require.NoError(t, w.Start(dir))
	defer w.Stop()

	writeFile(t, dir, "notes.txt", "not a unit")

	time.Sleep(300 * time.Millisecond)
	entries, err := os.ReadDir(outDir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w := newTestWatcher(t, "")
	require.NoError(t, w.Start(t.TempDir()))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_StartAfterStopFails(t *testing.T) {
	w := newTestWatcher(t, "")
	require.NoError(t, w.Stop())
	assert.Error(t, w.Start(t.TempDir()))
}
