// Package ui draws the dashboard frame from the view state.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/gitmon/internal/config"
	"github.com/zjrosen/gitmon/internal/diff"
	"github.com/zjrosen/gitmon/internal/keys"
	"github.com/zjrosen/gitmon/internal/view"
)

const tabSpaces = "    "

// Commit log column widths in cells.
const (
	logHashWidth   = 9
	logDateWidth   = 15
	logAuthorWidth = 18
)

// Geometry is what a render pass measured for the frame it drew.
type Geometry struct {
	ViewportHeight int
	ContentWidth   int
}

// Renderer turns a view state into a full-screen frame.
type Renderer struct {
	styles   Styles
	help     help.Model
	showHelp bool
}

// NewRenderer creates a renderer for the given theme.
func NewRenderer(theme config.ThemeConfig, showHelp bool) *Renderer {
	styles := NewStyles(theme)
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = styles.Prompt
	h.Styles.ShortDesc = styles.Subtle
	h.Styles.ShortSeparator = styles.Subtle
	return &Renderer{styles: styles, help: h, showHelp: showHelp}
}

// Measure returns the geometry a frame of width x height would have.
func (r *Renderer) Measure(width, height int) Geometry {
	chrome := 1
	if r.showHelp {
		chrome++
	}
	return Geometry{
		ViewportHeight: max(0, height-chrome),
		ContentWidth:   max(0, width-1),
	}
}

// Render draws the whole screen. The returned frame homes the cursor and
// overwrites every row, so it can be written over the previous frame.
func (r *Renderer) Render(st *view.State, width, height int) (string, Geometry) {
	geo := r.Measure(width, height)
	if width <= 0 || height <= 0 {
		return "", geo
	}

	var body []string
	var total, offset int
	switch st.Screen() {
	case view.ScreenCommitLog:
		body, total, offset = r.commitLogRows(st, geo)
	default:
		body, total, offset = r.diffRows(st, geo)
	}
	bar := scrollbarColumn(total, geo.ViewportHeight, offset, r.styles.ScrollTrack, r.styles.ScrollThumb)

	rows := make([]string, 0, height)
	for i := range geo.ViewportHeight {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		rows = append(rows, pad(line, geo.ContentWidth)+bar[i])
	}
	rows = append(rows, r.statusBar(st, width))
	if r.showHelp {
		rows = append(rows, r.helpBar(st, width))
	}
	rows = rows[:min(len(rows), height)]

	var sb strings.Builder
	sb.WriteString(ansi.CursorHomePosition)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(row)
		sb.WriteString(ansi.EraseLineRight)
	}
	return sb.String(), geo
}

// pad truncates or right-pads an already styled line to exactly width cells.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func (r *Renderer) diffRows(st *view.State, geo Geometry) (rows []string, total, offset int) {
	lines := st.VisibleLines()
	offset = st.Scroll()
	end := min(len(lines), offset+geo.ViewportHeight)

	search := st.Search()
	current, hasCurrent := st.CurrentMatch()
	byLine := matchesByLine(search.Matches, offset, end)

	for i := offset; i < end; i++ {
		spans := byLine[i]
		cur := -1
		if hasCurrent && current.Line == i {
			for j, m := range spans {
				if m == current {
					cur = j
				}
			}
		}
		rows = append(rows, r.diffLine(st, lines[i], spans, cur))
	}
	return rows, len(lines), offset
}

func matchesByLine(matches []view.Match, from, to int) map[int][]view.Match {
	first := sort.Search(len(matches), func(i int) bool { return matches[i].Line >= from })
	out := make(map[int][]view.Match)
	for _, m := range matches[first:] {
		if m.Line >= to {
			break
		}
		out[m.Line] = append(out[m.Line], m)
	}
	return out
}

func (r *Renderer) diffLine(st *view.State, line diff.Line, spans []view.Match, cur int) string {
	switch line.Kind() {
	case diff.KindFileHeader:
		icon := "▼"
		if st.IsCollapsed(line.Text()) {
			icon = "▶"
		}
		added, removed := line.Counts()
		name := r.highlight(line.Text(), spans, cur, r.styles.FileHeader)
		counts := r.styles.Added.Render(fmt.Sprintf("+%d", added)) + " " + r.styles.Removed.Render(fmt.Sprintf("-%d", removed))
		return r.styles.FileHeader.Render(icon) + " " + name + "  " + counts
	case diff.KindHeader:
		return r.highlight(line.Text(), spans, cur, r.styles.Header)
	case diff.KindHunk:
		return r.highlight(line.Text(), spans, cur, r.styles.Hunk)
	case diff.KindAdded:
		return r.highlight(line.Text(), spans, cur, r.styles.Added)
	case diff.KindRemoved:
		return r.highlight(line.Text(), spans, cur, r.styles.Removed)
	default:
		return r.highlight(line.Text(), spans, cur, r.styles.Context)
	}
}

// highlight renders text in base with each span in the match style; the
// span at index cur gets the current-match style.
func (r *Renderer) highlight(text string, spans []view.Match, cur int, base lipgloss.Style) string {
	if len(spans) == 0 {
		return base.Render(expandTabs(text))
	}

	var sb strings.Builder
	pos := 0
	for i, m := range spans {
		if m.Start < pos || m.End > len(text) {
			continue
		}
		if m.Start > pos {
			sb.WriteString(base.Render(expandTabs(text[pos:m.Start])))
		}
		style := r.styles.Match
		if i == cur {
			style = r.styles.CurrentMatch
		}
		sb.WriteString(style.Render(expandTabs(text[m.Start:m.End])))
		pos = m.End
	}
	if pos < len(text) {
		sb.WriteString(base.Render(expandTabs(text[pos:])))
	}
	return sb.String()
}

// highlightQuery marks every occurrence of query in text.
func (r *Renderer) highlightQuery(text, query string, base lipgloss.Style) string {
	if query == "" {
		return base.Render(text)
	}
	var spans []view.Match
	for _, s := range view.FindAll(text, query) {
		spans = append(spans, view.Match{Start: s[0], End: s[1]})
	}
	return r.highlight(text, spans, -1, base)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", tabSpaces)
}

func (r *Renderer) commitLogRows(st *view.State, geo Geometry) (rows []string, total, offset int) {
	cl := st.CommitLog()
	total = len(cl.Entries)
	if total == 0 {
		return []string{r.styles.Subtle.Render("(no commits)")}, 0, 0
	}

	offset = max(0, cl.Selected-geo.ViewportHeight+1)
	end := min(total, offset+geo.ViewportHeight)
	query := ""
	if st.Search().Active() || st.Mode() == view.ModeSearch {
		query = st.Search().Query
	}

	subjectWidth := max(0, geo.ContentWidth-2-logHashWidth-logDateWidth-logAuthorWidth)
	for i := offset; i < end; i++ {
		c := cl.Entries[i]
		marker := "  "
		if i == cl.Selected {
			marker = r.styles.Prompt.Render("> ")
		}
		row := marker +
			r.highlightQuery(runewidth.FillRight(runewidth.Truncate(c.ShortHash, logHashWidth-1, ""), logHashWidth), query, r.styles.LogHash) +
			r.styles.LogDate.Render(runewidth.FillRight(runewidth.Truncate(c.RelativeDate, logDateWidth-1, "…"), logDateWidth)) +
			r.highlightQuery(runewidth.FillRight(runewidth.Truncate(c.Author, logAuthorWidth-1, "…"), logAuthorWidth), query, r.styles.LogAuthor) +
			r.highlightQuery(runewidth.Truncate(c.Subject, subjectWidth, "…"), query, r.styles.Context)
		if i == cl.Selected {
			row = r.styles.Selected.Render(pad(row, geo.ContentWidth))
		}
		rows = append(rows, row)
	}
	return rows, total, offset
}

func (r *Renderer) helpBar(st *view.State, width int) string {
	var bindings []key.Binding
	switch {
	case st.Mode() == view.ModeSearch:
		bindings = keys.SearchShortHelp()
	case st.Screen() == view.ScreenCommitLog:
		bindings = keys.LogShortHelp()
	default:
		bindings = keys.DiffShortHelp()
	}
	r.help.Width = width
	return r.help.ShortHelpView(bindings)
}
