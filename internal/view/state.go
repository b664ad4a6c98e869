// Package view holds the dashboard's mutable view state: which diff is
// shown, folded files, the flattened visible lines, scroll position, search
// and the commit log cursor.
//
// State is owned by the controller goroutine and is not safe for concurrent
// use. Every mutation that changes the visible lines recomputes the derived
// fields and re-clamps scroll before returning.
package view

import (
	"strings"

	"github.com/zjrosen/gitmon/internal/diff"
	"github.com/zjrosen/gitmon/internal/git"
)

// DefaultLeadIn is the number of lines kept above a search match when the
// view jumps to it.
const DefaultLeadIn = 5

// DiffView selects which diff of the snapshot is displayed.
type DiffView int

const (
	Unstaged DiffView = iota
	Staged
)

func (v DiffView) String() string {
	if v == Staged {
		return "staged"
	}
	return "unstaged"
}

// Screen is the top-level screen being displayed.
type Screen int

const (
	ScreenDiff Screen = iota
	ScreenCommitLog
)

// InputMode decides how keys are routed.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeSearch           // printable keys edit the query
)

// State is the controller-owned view model.
type State struct {
	view   DiffView
	screen Screen
	mode   InputMode

	snapshot *git.Snapshot

	collapsed map[string]struct{}

	// Derived from snapshot, view and collapsed.
	visible     []diff.Line
	headers     []int    // indices into visible of file headers
	headerFiles []string // filename for each entry of headers

	scroll   int
	viewport int
	leadIn   int

	search Search
	log    CommitLog
}

// New creates an empty State. leadIn below zero falls back to DefaultLeadIn.
func New(leadIn int) *State {
	if leadIn < 0 {
		leadIn = DefaultLeadIn
	}
	return &State{
		collapsed: make(map[string]struct{}),
		leadIn:    leadIn,
	}
}

// View returns the displayed diff.
func (s *State) View() DiffView { return s.view }

// Screen returns the active screen.
func (s *State) Screen() Screen { return s.screen }

// Mode returns the current input mode.
func (s *State) Mode() InputMode { return s.mode }

// Snapshot returns the snapshot the visible lines were built from.
func (s *State) Snapshot() *git.Snapshot { return s.snapshot }

// VisibleLines returns the flattened lines. Callers must not modify the slice.
func (s *State) VisibleLines() []diff.Line { return s.visible }

// HeaderPositions returns the indices of file headers within VisibleLines.
func (s *State) HeaderPositions() []int { return s.headers }

// Scroll returns the index of the first visible line.
func (s *State) Scroll() int { return s.scroll }

// Viewport returns the number of content rows.
func (s *State) Viewport() int { return s.viewport }

// IsCollapsed reports whether filename is folded.
func (s *State) IsCollapsed(filename string) bool {
	_, ok := s.collapsed[filename]
	return ok
}

// Files returns the file sections of the displayed diff.
func (s *State) Files() []diff.FileDiff {
	return s.snapshot.Files(s.view == Staged)
}

// SetSnapshot replaces the snapshot and recomputes everything derived from
// it. Collapsed filenames are kept; names no longer present are ignored.
func (s *State) SetSnapshot(snap *git.Snapshot) {
	s.snapshot = snap
	s.rebuild()
}

// SetViewport records the content height measured by the renderer. It
// reports whether the re-clamp moved scroll.
func (s *State) SetViewport(height int) bool {
	s.viewport = max(0, height)
	before := s.scroll
	s.clamp()
	return before != s.scroll
}

// ToggleView switches between the unstaged and staged diff. Scroll resets
// to the top and search is cleared.
func (s *State) ToggleView() {
	if s.view == Unstaged {
		s.view = Staged
	} else {
		s.view = Unstaged
	}
	s.scroll = 0
	s.ClearSearch()
	s.rebuild()
}

// rebuild recomputes visible lines and header positions, then refreshes
// search matches and clamps scroll.
func (s *State) rebuild() {
	// Fresh slices: callers may still hold the previous ones.
	s.visible = make([]diff.Line, 0, len(s.visible))
	s.headers = nil
	s.headerFiles = nil

	if s.view == Unstaged && s.snapshot.IsPlaceholder() {
		s.visible = append(s.visible, diff.NewLine(diff.KindContext, s.snapshot.Notice))
	} else {
		for _, f := range s.Files() {
			s.headers = append(s.headers, len(s.visible))
			s.headerFiles = append(s.headerFiles, f.Filename)
			s.visible = append(s.visible, f.Header())
			if !s.IsCollapsed(f.Filename) {
				s.visible = append(s.visible, f.Lines...)
			}
		}
	}

	if s.screen == ScreenDiff {
		s.recomputeMatches()
	}
	s.clamp()
}

func (s *State) maxScroll() int {
	return max(0, len(s.visible)-s.viewport)
}

func (s *State) clamp() {
	s.scroll = min(max(s.scroll, 0), s.maxScroll())
}

// Text joins every visible line, one per row, for handing to a pager.
func (s *State) Text() string {
	var sb strings.Builder
	for _, l := range s.visible {
		sb.WriteString(l.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}
