package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/gitmon/internal/view"
)

const statusSep = " │ "

// statusBar shows the last successful snapshot: branch, last commit,
// counts, the active view and the capture time. While a query is typed it
// becomes the search prompt.
func (r *Renderer) statusBar(st *view.State, width int) string {
	left, right := r.statusText(st)

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		left = ansi.Truncate(left, max(0, width-ansi.StringWidth(right)-1), "…")
		gap = max(0, width-ansi.StringWidth(left)-ansi.StringWidth(right))
	}
	line := ansi.Truncate(left+strings.Repeat(" ", gap)+right, width, "")
	return r.styles.StatusBar.Render(line)
}

func (r *Renderer) statusText(st *view.State) (left, right string) {
	search := st.Search()

	if st.Mode() == view.ModeSearch {
		prompt := "/"
		if !search.Forward {
			prompt = "?"
		}
		return prompt + search.Query, matchPosition(search, true)
	}

	parts := []string{}
	snap := st.Snapshot()
	if snap != nil {
		parts = append(parts, " "+snap.Branch)
		if c := snap.LastCommit; c != nil {
			parts = append(parts, c.ShortHash+" "+c.Subject)
		}
		parts = append(parts, fmt.Sprintf("staged %d  unstaged %d", snap.StagedCount, snap.UnstagedCount))
	}

	if st.Screen() == view.ScreenCommitLog {
		parts = append(parts, fmt.Sprintf("log %d/%d", min(st.CommitLog().Selected+1, len(st.CommitLog().Entries)), len(st.CommitLog().Entries)))
	} else {
		parts = append(parts, st.View().String())
	}
	left = strings.Join(parts, statusSep)

	if search.Query != "" {
		right = matchPosition(search, false) + " "
	}
	if snap != nil && !snap.CapturedAt.IsZero() {
		right += snap.CapturedAt.Format("15:04:05") + " "
	}
	return left, right
}

// matchPosition renders "[i/n]" for the current match.
func matchPosition(s view.Search, typing bool) string {
	switch {
	case s.Query == "" && typing:
		return ""
	case len(s.Matches) == 0:
		return "[no match] "
	case typing:
		return fmt.Sprintf("[%d] ", len(s.Matches))
	default:
		return fmt.Sprintf("[%d/%d] %s", s.Current+1, len(s.Matches), s.Query)
	}
}
