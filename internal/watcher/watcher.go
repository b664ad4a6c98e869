// Package watcher watches a git working tree and its git directory and
// emits one change signal per debounce window that saw a relevant event.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/log"
)

// Sink receives change signals.
type Sink interface {
	Send(ctx context.Context, ev event.Event) error
}

// Config holds watcher configuration options.
type Config struct {
	Root         string
	GitDir       string
	Debounce     time.Duration
	GitPaths     []string // allow-list inside GitDir; DefaultGitPaths when empty
	ExtraIgnores []string // gitignore-syntax patterns added to the repository's own
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(root, gitDir string) Config {
	return Config{
		Root:     root,
		GitDir:   gitDir,
		Debounce: 200 * time.Millisecond,
		GitPaths: DefaultGitPaths,
	}
}

// Watcher monitors a repository for changes. The caller owns it and must
// call Stop to release the underlying watch descriptors.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	classifier *Classifier
	root       string
	gitDir     string
	debounce   time.Duration
	dirs       map[string]struct{}
	done       chan struct{}
	cancel     context.CancelFunc
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New creates a new repository watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" || cfg.GitDir == "" {
		return nil, errors.New("watcher: root and git dir are required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig(cfg.Root, cfg.GitDir).Debounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	root := filepath.Clean(cfg.Root)
	gitDir := filepath.Clean(cfg.GitDir)
	return &Watcher{
		fsWatcher:  fsw,
		classifier: NewClassifier(root, gitDir, cfg.GitPaths, cfg.ExtraIgnores),
		root:       root,
		gitDir:     gitDir,
		debounce:   cfg.Debounce,
		dirs:       make(map[string]struct{}),
		done:       make(chan struct{}),
	}, nil
}

// Start registers the watch tree and begins delivering change signals to
// sink. Signals stop when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, sink Sink) error {
	if err := w.fsWatcher.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.dirs[w.root] = struct{}{}

	w.watchTree(w.root)
	if _, inside := within(w.root, w.gitDir); !inside {
		w.watchGitDir()
	}
	log.Info(log.CatWatcher, "watching repository", "root", w.root, "dirs", len(w.dirs))

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx, sink)
	return nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
		err = w.fsWatcher.Close()
	})
	return err
}

// loop batches classified events into fixed debounce windows. The window
// opens on the first relevant event and is not extended by later ones, so
// continuous churn still yields one signal per window.
func (w *Watcher) loop(ctx context.Context, sink Sink) {
	defer w.wg.Done()

	var (
		timer  *time.Timer
		window <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.handleEvent(ev) {
				continue
			}
			if window == nil {
				timer = time.NewTimer(w.debounce)
				window = timer.C
			}

		case <-window:
			window = nil
			if err := sink.Send(ctx, event.ChangeEvent()); err != nil {
				log.Debug(log.CatWatcher, "change signal not delivered", "error", err)
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatcher, "watch error", "error", err)

		case <-w.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent keeps the watch tree and ignore rules current and reports
// whether ev counts toward a refresh.
func (w *Watcher) handleEvent(ev fsnotify.Event) bool {
	// Permission and timestamp changes never alter a diff.
	if ev.Op == fsnotify.Chmod {
		return false
	}

	isDir := w.isDir(ev)
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		delete(w.dirs, filepath.Clean(ev.Name))
	}

	for _, f := range w.classifier.IgnoreFiles() {
		if filepath.Clean(ev.Name) == f {
			w.classifier.Reload()
			log.Debug(log.CatWatcher, "reloaded ignore rules", "file", f)
		}
	}

	if ev.Has(fsnotify.Create) && isDir {
		w.watchTree(ev.Name)
	}

	return w.classifier.Relevant(ev.Name, isDir)
}

func (w *Watcher) isDir(ev fsnotify.Event) bool {
	if _, watched := w.dirs[filepath.Clean(ev.Name)]; watched {
		return true
	}
	info, err := os.Lstat(ev.Name)
	return err == nil && info.IsDir()
}

// watchTree adds every non-ignored directory under dir. Inside the git dir
// only the refs hierarchy is followed.
func (w *Watcher) watchTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug(log.CatWatcher, "walk error", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		path = filepath.Clean(path)
		if path == w.gitDir {
			w.watchGitDir()
			return filepath.SkipDir
		}
		if w.classifier.InGitDir(path) {
			if rel, _ := within(w.gitDir, path); !isRefsPath(rel) {
				return filepath.SkipDir
			}
		} else if rel, ok := within(w.root, path); ok && rel != "." && w.classifier.Ignored(rel, true) {
			return filepath.SkipDir
		}

		w.add(path)
		return nil
	})
	if err != nil {
		log.Warn(log.CatWatcher, "walk failed", "dir", dir, "error", err)
	}
}

// watchGitDir adds the git dir itself, its refs tree, and info/ so that
// edits to info/exclude reload the ignore rules.
func (w *Watcher) watchGitDir() {
	w.add(w.gitDir)
	info := filepath.Join(w.gitDir, "info")
	if _, err := os.Stat(info); err == nil {
		w.add(info)
	}
	refs := filepath.Join(w.gitDir, "refs")
	if _, err := os.Stat(refs); err == nil {
		w.watchTree(refs)
	}
}

func (w *Watcher) add(path string) {
	if _, ok := w.dirs[path]; ok {
		return
	}
	if err := w.fsWatcher.Add(path); err != nil {
		log.Warn(log.CatWatcher, "cannot watch directory", "path", path, "error", err)
		return
	}
	w.dirs[path] = struct{}{}
}

func isRefsPath(rel string) bool {
	rel = filepath.ToSlash(rel)
	return rel == "refs" || strings.HasPrefix(rel, "refs/")
}
