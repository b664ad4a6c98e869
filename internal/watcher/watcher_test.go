package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/watcher"
)

const testDebounce = 50 * time.Millisecond

// fakeRepo lays out a working tree with a minimal .git directory. No git
// binary is needed: the watcher only looks at paths.
func fakeRepo(t *testing.T, gitignore string) (root, gitDir string) {
	t.Helper()
	root = t.TempDir()
	gitDir = filepath.Join(root, ".git")
	for _, d := range []string{"refs/heads", "objects/ab", "logs", "info"} {
		require.NoError(t, os.MkdirAll(filepath.Join(gitDir, d), 0o755))
	}
	writeFile(t, filepath.Join(gitDir, "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(root, "tracked.txt"), "initial\n")
	if gitignore != "" {
		writeFile(t, filepath.Join(root, ".gitignore"), gitignore)
	}
	return root, gitDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatcher(t *testing.T, root, gitDir string) *event.Mux {
	t.Helper()
	mux := event.NewMux()
	cfg := watcher.DefaultConfig(root, gitDir)
	cfg.Debounce = testDebounce

	w, err := watcher.New(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), mux))
	t.Cleanup(func() {
		_ = w.Stop()
		mux.Close()
	})
	return mux
}

// countSignals collects change signals until d elapses.
func countSignals(mux *event.Mux, d time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	n := 0
	for {
		ev, err := mux.Recv(ctx)
		if err != nil {
			return n
		}
		if ev.Kind == event.KindChange {
			n++
		}
	}
}

func TestWatcher_BurstCoalescesToOneSignal(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := startWatcher(t, root, gitDir)

	// Rapid writes inside one debounce window.
	for i := range 10 {
		writeFile(t, filepath.Join(root, "tracked.txt"), fmt.Sprintf("v%d\n", i))
	}

	require.Equal(t, 1, countSignals(mux, 4*testDebounce))
}

func TestWatcher_IgnoredOnlyEmitsNothing(t *testing.T) {
	root, gitDir := fakeRepo(t, "*.log\nbuild/\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	mux := startWatcher(t, root, gitDir)

	for i := range 5 {
		writeFile(t, filepath.Join(root, "debug.log"), fmt.Sprintf("%d", i))
		writeFile(t, filepath.Join(root, "build", "out.bin"), fmt.Sprintf("%d", i))
	}

	require.Zero(t, countSignals(mux, 4*testDebounce))
}

func TestWatcher_GitNoiseIgnored(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := startWatcher(t, root, gitDir)

	writeFile(t, filepath.Join(gitDir, "COMMIT_EDITMSG"), "msg\n")
	writeFile(t, filepath.Join(gitDir, "index.lock"), "lock")
	writeFile(t, filepath.Join(gitDir, "FETCH_HEAD"), "x")
	writeFile(t, filepath.Join(gitDir, "objects", "ab", "cdef"), "blob")
	writeFile(t, filepath.Join(gitDir, "logs", "HEAD"), "reflog")

	require.Zero(t, countSignals(mux, 4*testDebounce))
}

func TestWatcher_AllowListedGitPathsTrigger(t *testing.T) {
	tests := []struct {
		name string
		rel  string
	}{
		{"index", "index"},
		{"HEAD", "HEAD"},
		{"branch ref", "refs/heads/main"},
		{"merge marker", "MERGE_HEAD"},
		{"rebase marker", "REBASE_HEAD"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root, gitDir := fakeRepo(t, "")
			mux := startWatcher(t, root, gitDir)

			writeFile(t, filepath.Join(gitDir, filepath.FromSlash(tc.rel)), "abc\n")

			require.Equal(t, 1, countSignals(mux, 4*testDebounce))
		})
	}
}

func TestWatcher_ExcludeEditReloadsRules(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := startWatcher(t, root, gitDir)

	// info/exclude is not allow-listed, so editing it alone is silent.
	writeFile(t, filepath.Join(gitDir, "info", "exclude"), "*.tmp\n")
	require.Zero(t, countSignals(mux, 4*testDebounce))

	writeFile(t, filepath.Join(root, "scratch.tmp"), "x")
	require.Zero(t, countSignals(mux, 4*testDebounce))

	writeFile(t, filepath.Join(root, "tracked.txt"), "changed\n")
	require.Equal(t, 1, countSignals(mux, 4*testDebounce))
}

func TestWatcher_MixedWindowSignalsOnce(t *testing.T) {
	root, gitDir := fakeRepo(t, "*.log\n")
	mux := startWatcher(t, root, gitDir)

	writeFile(t, filepath.Join(root, "a.log"), "x")
	writeFile(t, filepath.Join(gitDir, "COMMIT_EDITMSG"), "x")
	writeFile(t, filepath.Join(gitDir, "index"), "x")
	writeFile(t, filepath.Join(root, "b.log"), "x")

	require.Equal(t, 1, countSignals(mux, 4*testDebounce))
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := startWatcher(t, root, gitDir)

	dir := filepath.Join(root, "pkg", "sub")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.Equal(t, 1, countSignals(mux, 4*testDebounce))

	writeFile(t, filepath.Join(dir, "new.go"), "package sub\n")
	require.Equal(t, 1, countSignals(mux, 4*testDebounce))
}

func TestWatcher_SeparateWindowsSignalSeparately(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := startWatcher(t, root, gitDir)

	writeFile(t, filepath.Join(root, "tracked.txt"), "one\n")
	require.Equal(t, 1, countSignals(mux, 4*testDebounce))

	writeFile(t, filepath.Join(root, "tracked.txt"), "two\n")
	require.Equal(t, 1, countSignals(mux, 4*testDebounce))
}

func TestWatcher_Stop(t *testing.T) {
	root, gitDir := fakeRepo(t, "")
	mux := event.NewMux()
	cfg := watcher.DefaultConfig(root, gitDir)
	cfg.Debounce = testDebounce

	w, err := watcher.New(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), mux))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	writeFile(t, filepath.Join(root, "tracked.txt"), "after stop\n")
	require.Zero(t, countSignals(mux, 4*testDebounce))
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/repo", "/repo/.git")
	require.Equal(t, "/repo", cfg.Root)
	require.Equal(t, "/repo/.git", cfg.GitDir)
	require.Equal(t, 200*time.Millisecond, cfg.Debounce)
	require.Equal(t, watcher.DefaultGitPaths, cfg.GitPaths)
}
