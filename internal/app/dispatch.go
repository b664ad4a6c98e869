package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/gitmon/internal/keys"
	"github.com/zjrosen/gitmon/internal/view"
)

// Action is a side effect a key asks the controller to perform after the
// view state has been updated.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRefresh
	ActionOpenLog
	ActionShowCommit
	ActionPageVisible
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionRefresh:
		return "refresh"
	case ActionOpenLog:
		return "open-log"
	case ActionShowCommit:
		return "show-commit"
	case ActionPageVisible:
		return "page-visible"
	default:
		return "none"
	}
}

// Dispatch applies one key to the view state. The key map is chosen by
// input mode first, then by screen. Anything that needs I/O is returned as
// an Action instead of being done here.
func Dispatch(st *view.State, k tea.Key) Action {
	switch {
	case st.Mode() == view.ModeSearch:
		return dispatchSearch(st, k)
	case st.Screen() == view.ScreenCommitLog:
		return dispatchLog(st, k)
	default:
		return dispatchDiff(st, k)
	}
}

func dispatchSearch(st *view.State, k tea.Key) Action {
	km := keys.Search
	switch {
	case key.Matches(k, km.Quit):
		return ActionQuit
	case key.Matches(k, km.Confirm):
		st.SearchConfirm()
	case key.Matches(k, km.Cancel):
		st.ClearSearch()
	case key.Matches(k, km.Backspace):
		st.SearchPop()
	case k.Type == tea.KeySpace:
		st.SearchPush(' ')
	case k.Type == tea.KeyRunes && !k.Alt:
		for _, r := range k.Runes {
			st.SearchPush(r)
		}
	}
	return ActionNone
}

func dispatchDiff(st *view.State, k tea.Key) Action {
	km := keys.Diff
	switch {
	case key.Matches(k, km.Quit):
		return ActionQuit
	case key.Matches(k, km.ToggleView):
		st.ToggleView()
	case key.Matches(k, km.Down):
		st.ScrollDown(1)
	case key.Matches(k, km.Up):
		st.ScrollUp(1)
	case key.Matches(k, km.Top):
		st.ScrollTop()
	case key.Matches(k, km.Bottom):
		st.ScrollBottom()
	case key.Matches(k, km.HalfDown):
		st.HalfPageDown()
	case key.Matches(k, km.HalfUp):
		st.HalfPageUp()
	case key.Matches(k, km.PageDown):
		st.PageDown()
	case key.Matches(k, km.PageUp):
		st.PageUp()
	case key.Matches(k, km.NextFile):
		st.NextFile()
	case key.Matches(k, km.PrevFile):
		st.PrevFile()
	case key.Matches(k, km.ToggleFold):
		st.ToggleFold()
	case key.Matches(k, km.FoldAll):
		st.FoldAll()
	case key.Matches(k, km.UnfoldAll):
		st.UnfoldAll()
	case key.Matches(k, km.SearchForward):
		st.EnterSearch(true)
	case key.Matches(k, km.SearchBackward):
		st.EnterSearch(false)
	case key.Matches(k, km.NextMatch):
		st.SearchNext()
	case key.Matches(k, km.PrevMatch):
		st.SearchPrev()
	case key.Matches(k, km.ClearSearch):
		st.ClearSearch()
	case key.Matches(k, km.Page):
		return ActionPageVisible
	case key.Matches(k, km.CommitLog):
		return ActionOpenLog
	case key.Matches(k, km.Refresh):
		return ActionRefresh
	}
	return ActionNone
}

func dispatchLog(st *view.State, k tea.Key) Action {
	km := keys.Log
	switch {
	case key.Matches(k, km.Quit):
		return ActionQuit
	case key.Matches(k, km.Back):
		st.CloseCommitLog()
	case key.Matches(k, km.Down):
		st.SelectNext()
	case key.Matches(k, km.Up):
		st.SelectPrev()
	case key.Matches(k, km.First):
		st.SelectFirst()
	case key.Matches(k, km.Last):
		st.SelectLast()
	case key.Matches(k, km.Show):
		return ActionShowCommit
	case key.Matches(k, km.SearchForward):
		st.EnterSearch(true)
	case key.Matches(k, km.SearchBackward):
		st.EnterSearch(false)
	case key.Matches(k, km.NextMatch):
		st.SearchNext()
	case key.Matches(k, km.PrevMatch):
		st.SearchPrev()
	}
	return ActionNone
}
