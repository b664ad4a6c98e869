package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/git"
	"github.com/zjrosen/gitmon/internal/ui"
	"github.com/zjrosen/gitmon/internal/view"
)

// recorder collects the order of collaborator calls across fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// scriptedEvents delivers batches of events. Recv moves to the next batch
// only once the current one is used up, so Drain sees exactly what was
// queued "at the same time" as the event being handled.
type scriptedEvents struct {
	rec     *recorder
	batches [][]event.Event
	queue   []event.Event
}

func (s *scriptedEvents) Recv(ctx context.Context) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	for len(s.queue) == 0 {
		if len(s.batches) == 0 {
			return event.Event{}, event.ErrClosed
		}
		s.queue, s.batches = s.batches[0], s.batches[1:]
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, nil
}

func (s *scriptedEvents) Drain() []event.Event {
	if s.rec != nil {
		s.rec.add("drain")
	}
	out := s.queue
	s.queue = nil
	return out
}

// enqueue simulates events arriving while something else runs.
func (s *scriptedEvents) enqueue(evs ...event.Event) {
	s.queue = append(s.queue, evs...)
}

type fakeTerminal struct {
	rec       *recorder
	width     int
	height    int
	frames    []string
	resumeErr error
	closed    int
}

func (f *fakeTerminal) Size() (int, int, error) { return f.width, f.height, nil }

func (f *fakeTerminal) Write(p []byte) (int, error) {
	f.frames = append(f.frames, string(p))
	return len(p), nil
}

func (f *fakeTerminal) Suspend() error {
	f.rec.add("suspend")
	return nil
}

func (f *fakeTerminal) Resume() error {
	f.rec.add("resume")
	return f.resumeErr
}

func (f *fakeTerminal) Close() error {
	f.closed++
	return nil
}

// fakeRenderer reports a viewport of height-1 and records what it drew.
type fakeRenderer struct {
	calls   int
	sizes   [][2]int
	scrolls []int
	panicOn int
}

func (f *fakeRenderer) Render(st *view.State, width, height int) (string, ui.Geometry) {
	f.calls++
	if f.panicOn > 0 && f.calls == f.panicOn {
		panic("render exploded")
	}
	f.sizes = append(f.sizes, [2]int{width, height})
	f.scrolls = append(f.scrolls, st.Scroll())
	return fmt.Sprintf("frame %d", f.calls), ui.Geometry{ViewportHeight: max(0, height-1), ContentWidth: width}
}

type fakePager struct {
	rec     *recorder
	pages   []string
	during  func()
	pageErr error
}

func (f *fakePager) Page(content string) error {
	f.rec.add("page")
	f.pages = append(f.pages, content)
	if f.during != nil {
		f.during()
	}
	return f.pageErr
}

type fakeInput struct {
	rec    *recorder
	paused bool
	parked bool
	grace  time.Duration
}

func (f *fakeInput) Pause(_ context.Context, grace time.Duration) bool {
	f.rec.add("pause")
	f.paused = true
	f.grace = grace
	return f.parked
}

func (f *fakeInput) Resume() {
	f.rec.add("input-resume")
	f.paused = false
}

type fakeShows struct {
	shown []string
	err   error
}

func (f *fakeShows) Show(_ context.Context, hash string) (string, error) {
	f.shown = append(f.shown, hash)
	if f.err != nil {
		return "", f.err
	}
	return "commit " + hash + "\n", nil
}

// fakeExecutor serves a fixed diff and counts queries.
type fakeExecutor struct {
	unstaged  string
	staged    string
	queries   int
	failFrom  int // queries numbered >= failFrom fail; 0 never fails
	onQuery   func()
	log       []git.CommitInfo
	logLimits []int
	logErr    error
}

var _ git.Executor = (*fakeExecutor)(nil)

func (f *fakeExecutor) GetRepoRoot() (string, error)      { return "/repo", nil }
func (f *fakeExecutor) GetGitDir() (string, error)        { return "/repo/.git", nil }
func (f *fakeExecutor) GetCurrentBranch() (string, error) { return "main", nil }
func (f *fakeExecutor) GetLastCommit() (*git.CommitInfo, error) {
	return &git.CommitInfo{Hash: "abc", ShortHash: "abc", Subject: "init"}, nil
}

func (f *fakeExecutor) GetStatusCounts() (int, int, error) {
	f.queries++
	if f.onQuery != nil {
		f.onQuery()
	}
	if f.failFrom > 0 && f.queries >= f.failFrom {
		return 0, 0, errors.New("fatal: index.lock exists")
	}
	return 0, 1, nil
}

func (f *fakeExecutor) GetDiff(staged bool) (string, error) {
	if staged {
		return f.staged, nil
	}
	return f.unstaged, nil
}

func (f *fakeExecutor) GetCommitLog(limit int) ([]git.CommitInfo, error) {
	f.logLimits = append(f.logLimits, limit)
	return f.log, f.logErr
}

func (f *fakeExecutor) GetCommitShow(hash string) (string, error) { return "", nil }
func (f *fakeExecutor) GetConfig(key string) (string, error)      { return "", nil }

// longDiff has one file with n added lines.
func longDiff(n int) string {
	var sb strings.Builder
	sb.WriteString("diff --git a/big.txt b/big.txt\n--- a/big.txt\n+++ b/big.txt\n@@ -0,0 +1 @@\n")
	for i := range n {
		fmt.Fprintf(&sb, "+line %d\n", i)
	}
	return sb.String()
}

func keyEv(s string) event.Event {
	return event.KeyEvent(keyOf(s))
}
