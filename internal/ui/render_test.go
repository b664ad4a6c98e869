package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gitmon/internal/config"
	"github.com/zjrosen/gitmon/internal/diff"
	"github.com/zjrosen/gitmon/internal/git"
	"github.com/zjrosen/gitmon/internal/view"
)

const twoFiles = `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,4 @@
+one
+two
+three
-gone
	context with tab
diff --git a/b.txt b/b.txt
--- a/b.txt
+++ b/b.txt
@@ -1 +1 @@
-old
+new
`

func testSnapshot() *git.Snapshot {
	return &git.Snapshot{
		Branch:        "main",
		LastCommit:    &git.CommitInfo{Hash: "abc1234def", ShortHash: "abc1234", Subject: "Initial commit"},
		StagedCount:   1,
		UnstagedCount: 2,
		Unstaged:      diff.Parse(twoFiles),
		CapturedAt:    time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC),
	}
}

// screenRows renders and returns the plain text of each row.
func screenRows(t *testing.T, r *Renderer, st *view.State, width, height int) []string {
	t.Helper()
	frame, _ := r.Render(st, width, height)
	require.True(t, strings.HasPrefix(frame, ansi.CursorHomePosition))
	rows := strings.Split(ansi.Strip(frame), "\r\n")
	require.Len(t, rows, height)
	for _, row := range rows {
		require.LessOrEqual(t, ansi.StringWidth(row), width)
	}
	return rows
}

func newTestState(snap *git.Snapshot, viewport int) *view.State {
	st := view.New(view.DefaultLeadIn)
	st.SetViewport(viewport)
	st.SetSnapshot(snap)
	return st
}

func TestMeasure(t *testing.T) {
	withHelp := NewRenderer(config.Defaults().Theme, true)
	require.Equal(t, Geometry{ViewportHeight: 22, ContentWidth: 79}, withHelp.Measure(80, 24))

	bare := NewRenderer(config.Defaults().Theme, false)
	require.Equal(t, Geometry{ViewportHeight: 23, ContentWidth: 79}, bare.Measure(80, 24))
	require.Equal(t, Geometry{}, bare.Measure(0, 0))
}

func TestRender_DiffScreen(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, true)
	st := newTestState(testSnapshot(), 22)

	rows := screenRows(t, r, st, 80, 24)
	require.Contains(t, rows[0], "▼ a.txt  +3 -1")
	require.Contains(t, rows[5], "+one")
	require.Contains(t, rows[9], "    context with tab", "tabs are expanded")
	require.Contains(t, rows[10], "▼ b.txt  +1 -1")

	status := rows[22]
	require.Contains(t, status, "main")
	require.Contains(t, status, "abc1234 Initial commit")
	require.Contains(t, status, "staged 1  unstaged 2")
	require.Contains(t, status, "unstaged")
	require.Contains(t, status, "13:04:05")

	require.Contains(t, rows[23], "quit")
}

func TestRender_CollapsedFileShowsClosedMarker(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 23)
	st.SetCollapsed("a.txt", true)

	rows := screenRows(t, r, st, 80, 24)
	require.Contains(t, rows[0], "▶ a.txt")
	require.Contains(t, rows[1], "▼ b.txt")
}

func TestRender_ScrollOffset(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 3)
	st.ScrollTo(10)

	rows := screenRows(t, r, st, 40, 4)
	require.Contains(t, rows[0], "▼ b.txt")
	require.Contains(t, rows[1], "diff --git a/b.txt b/b.txt")
	require.Contains(t, rows[2], "--- a/b.txt")
}

func TestRender_ScrollbarOnlyWhenOverflowing(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)

	st := newTestState(testSnapshot(), 3)
	rows := screenRows(t, r, st, 40, 4)
	require.True(t, strings.HasSuffix(rows[0], scrollbarThumbChar))
	require.True(t, strings.HasSuffix(rows[2], scrollbarTrackChar))

	st = newTestState(testSnapshot(), 30)
	rows = screenRows(t, r, st, 40, 31)
	require.False(t, strings.HasSuffix(rows[0], scrollbarThumbChar))
}

func TestRender_TruncatesWideLines(t *testing.T) {
	snap := testSnapshot()
	snap.Unstaged = diff.Parse("diff --git a/x b/x\n+" + strings.Repeat("x", 200) + "\n")
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(snap, 5)

	rows := screenRows(t, r, st, 30, 6)
	require.True(t, strings.HasPrefix(rows[2], "+xxxx"))
	require.Equal(t, 30, ansi.StringWidth(rows[2]))
}

func TestRender_Placeholder(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(git.Empty("not a git repository"), 10)

	rows := screenRows(t, r, st, 60, 11)
	require.Contains(t, rows[0], "not a git repository")
	require.Contains(t, rows[10], "(unknown)")
}

func TestRender_SearchPromptAndPosition(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 10)

	st.EnterSearch(true)
	for _, c := range "ne" {
		st.SearchPush(c)
	}
	rows := screenRows(t, r, st, 60, 11)
	require.True(t, strings.HasPrefix(rows[10], "/ne"))
	require.Contains(t, rows[10], "[3]", "one, gone, new")

	require.True(t, st.SearchConfirm())
	rows = screenRows(t, r, st, 60, 11)
	require.Contains(t, rows[10], "[1/3] ne")
}

func TestRender_NoMatchPrompt(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 10)
	st.EnterSearch(false)
	st.SearchPush('z')

	rows := screenRows(t, r, st, 60, 11)
	require.True(t, strings.HasPrefix(rows[10], "?z"))
	require.Contains(t, rows[10], "[no match]")
}

func TestRender_CommitLog(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, true)
	st := newTestState(testSnapshot(), 10)
	st.OpenCommitLog([]git.CommitInfo{
		{ShortHash: "aaa1111", Subject: "Add parser", Author: "Ada", RelativeDate: "2 hours ago"},
		{ShortHash: "bbb2222", Subject: "Fix watcher", Author: "Grace", RelativeDate: "3 days ago"},
	})
	st.SelectNext()

	rows := screenRows(t, r, st, 100, 12)
	require.True(t, strings.HasPrefix(rows[0], "  aaa1111"))
	require.Contains(t, rows[0], "Add parser")
	require.True(t, strings.HasPrefix(rows[1], "> bbb2222"))
	require.Contains(t, rows[1], "Grace")
	require.Contains(t, rows[1], "3 days ago")
	require.Contains(t, rows[10], "log 2/2")
	require.Contains(t, rows[11], "back")
}

func TestRender_CommitLogEmpty(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 10)
	st.OpenCommitLog(nil)

	rows := screenRows(t, r, st, 60, 11)
	require.Contains(t, rows[0], "(no commits)")
}

func TestRender_CommitLogKeepsSelectionVisible(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, false)
	st := newTestState(testSnapshot(), 3)
	var entries []git.CommitInfo
	for _, h := range []string{"c1", "c2", "c3", "c4", "c5"} {
		entries = append(entries, git.CommitInfo{ShortHash: h, Subject: "s"})
	}
	st.OpenCommitLog(entries)
	st.SelectLast()

	rows := screenRows(t, r, st, 60, 4)
	require.True(t, strings.HasPrefix(rows[2], "> c5"))
	require.True(t, strings.HasPrefix(rows[0], "  c3"))
}

func TestRender_ZeroSize(t *testing.T) {
	r := NewRenderer(config.Defaults().Theme, true)
	frame, _ := r.Render(newTestState(testSnapshot(), 0), 0, 0)
	require.Empty(t, frame)
}

func TestHighlight_SplitsAroundMatches(t *testing.T) {
	r := NewRenderer(config.ThemeConfig{}, false)
	out := r.highlight("a\tbc abc", []view.Match{{Start: 2, End: 4}, {Start: 6, End: 8}}, 0, r.styles.Context)
	require.Equal(t, "a    bc abc", ansi.Strip(out))
}

func TestThumbBounds(t *testing.T) {
	tests := []struct {
		name                    string
		total, viewport, offset int
		wantStart, wantHeight   int
	}{
		{"empty", 0, 10, 0, 0, 0},
		{"fits", 5, 10, 0, 0, 10},
		{"top", 100, 10, 0, 0, 1},
		{"bottom", 100, 10, 90, 9, 1},
		{"half", 20, 10, 5, 2, 5},
		{"end of half", 20, 10, 10, 5, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, height := thumbBounds(tc.total, tc.viewport, tc.offset)
			require.Equal(t, tc.wantStart, start)
			require.Equal(t, tc.wantHeight, height)
		})
	}
}
