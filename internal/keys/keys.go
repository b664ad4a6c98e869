// Package keys contains keybinding definitions for each screen and input mode.
package keys

import "github.com/charmbracelet/bubbles/key"

// DiffKeys are the bindings of the diff screen.
type DiffKeys struct {
	// Navigation
	Down       key.Binding
	Up         key.Binding
	Top        key.Binding
	Bottom     key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	NextFile   key.Binding
	PrevFile   key.Binding
	ToggleView key.Binding

	// Folding
	ToggleFold key.Binding
	FoldAll    key.Binding
	UnfoldAll  key.Binding

	// Search
	SearchForward  key.Binding
	SearchBackward key.Binding
	NextMatch      key.Binding
	PrevMatch      key.Binding
	ClearSearch    key.Binding

	// Actions
	Page      key.Binding
	CommitLog key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

// LogKeys are the bindings of the commit log screen.
type LogKeys struct {
	Down  key.Binding
	Up    key.Binding
	First key.Binding
	Last  key.Binding
	Show  key.Binding
	Back  key.Binding
	Quit  key.Binding

	SearchForward  key.Binding
	SearchBackward key.Binding
	NextMatch      key.Binding
	PrevMatch      key.Binding
}

// SearchKeys are the bindings while a query is being typed. Every other
// printable key is appended to the query.
type SearchKeys struct {
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Quit      key.Binding
}

var (
	searchForward = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	)
	searchBackward = key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "search back"),
	)
	nextMatch = key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n/N", "next/prev match"),
	)
	prevMatch = key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "prev match"),
	)
	down = key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	)
	up = key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	)
	forceQuit = key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	)
)

// Diff holds the diff screen bindings.
var Diff = DiffKeys{
	Down: down,
	Up:   up,
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	HalfDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "half page down"),
	),
	HalfUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "half page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "page down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "page up"),
	),
	NextFile: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]/[", "next/prev file"),
	),
	PrevFile: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev file"),
	),
	ToggleView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "staged/unstaged"),
	),

	ToggleFold: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "fold"),
	),
	FoldAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C/E", "fold/unfold all"),
	),
	UnfoldAll: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "unfold all"),
	),

	SearchForward:  searchForward,
	SearchBackward: searchBackward,
	NextMatch:      nextMatch,
	PrevMatch:      prevMatch,
	ClearSearch: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),

	Page: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "pager"),
	),
	CommitLog: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "log"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Log holds the commit log screen bindings.
var Log = LogKeys{
	Down: down,
	Up:   up,
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Show: key.NewBinding(
		key.WithKeys("enter", "d"),
		key.WithHelp("enter", "show commit"),
	),
	Back: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q/esc", "back"),
	),
	Quit: forceQuit,

	SearchForward:  searchForward,
	SearchBackward: searchBackward,
	NextMatch:      nextMatch,
	PrevMatch:      prevMatch,
}

// Search holds the bindings of search input mode.
var Search = SearchKeys{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("backspace", "delete"),
	),
	Quit: forceQuit,
}

// DiffShortHelp returns the bindings shown in the diff screen help bar.
func DiffShortHelp() []key.Binding {
	return []key.Binding{
		Diff.Quit, Diff.ToggleView, Diff.NextFile, Diff.ToggleFold, Diff.FoldAll,
		Diff.SearchForward, Diff.NextMatch, Diff.Page, Diff.CommitLog,
	}
}

// DiffFullHelp groups every diff screen binding.
func DiffFullHelp() [][]key.Binding {
	return [][]key.Binding{
		{Diff.Down, Diff.Up, Diff.Top, Diff.Bottom, Diff.HalfDown, Diff.HalfUp, Diff.PageDown, Diff.PageUp},
		{Diff.NextFile, Diff.PrevFile, Diff.ToggleView, Diff.ToggleFold, Diff.FoldAll, Diff.UnfoldAll},
		{Diff.SearchForward, Diff.SearchBackward, Diff.NextMatch, Diff.PrevMatch, Diff.ClearSearch},
		{Diff.Page, Diff.CommitLog, Diff.Refresh, Diff.Quit},
	}
}

// LogShortHelp returns the bindings shown in the commit log help bar.
func LogShortHelp() []key.Binding {
	return []key.Binding{Log.Back, Log.Down, Log.Up, Log.Show, Log.SearchForward, Log.NextMatch}
}

// SearchShortHelp returns the bindings shown while typing a query.
func SearchShortHelp() []key.Binding {
	return []key.Binding{Search.Confirm, Search.Cancel, Search.Backspace}
}
