package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/gitmon/internal/config"
)

// Styles holds every lipgloss style the renderer uses.
type Styles struct {
	Added      lipgloss.Style
	Removed    lipgloss.Style
	Hunk       lipgloss.Style
	Header     lipgloss.Style
	Context    lipgloss.Style
	FileHeader lipgloss.Style
	Counts     lipgloss.Style

	Match        lipgloss.Style
	CurrentMatch lipgloss.Style

	StatusBar lipgloss.Style
	Prompt    lipgloss.Style
	Subtle    lipgloss.Style

	Selected    lipgloss.Style
	ScrollTrack lipgloss.Style
	ScrollThumb lipgloss.Style
	LogHash     lipgloss.Style
	LogDate     lipgloss.Style
	LogAuthor   lipgloss.Style
}

// color maps a theme value to a lipgloss color. Empty means terminal default.
func color(s string) lipgloss.TerminalColor {
	if s == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(s)
}

// NewStyles builds styles from the configured theme.
func NewStyles(theme config.ThemeConfig) Styles {
	subtle := color(theme.Subtle)
	match := color(theme.Match)

	return Styles{
		Added:      lipgloss.NewStyle().Foreground(color(theme.Added)),
		Removed:    lipgloss.NewStyle().Foreground(color(theme.Removed)),
		Hunk:       lipgloss.NewStyle().Foreground(color(theme.Hunk)),
		Header:     lipgloss.NewStyle().Foreground(color(theme.Header)).Bold(true),
		Context:    lipgloss.NewStyle(),
		FileHeader: lipgloss.NewStyle().Foreground(color(theme.FileHeader)).Bold(true),
		Counts:     lipgloss.NewStyle().Foreground(subtle),

		Match:        lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(match),
		CurrentMatch: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(match).Bold(true).Underline(true),

		StatusBar: lipgloss.NewStyle().Background(color(theme.StatusBar)).Foreground(lipgloss.Color("15")),
		Prompt:    lipgloss.NewStyle().Foreground(match).Bold(true),
		Subtle:    lipgloss.NewStyle().Foreground(subtle),

		Selected:    lipgloss.NewStyle().Background(color(theme.StatusBar)).Bold(true),
		ScrollTrack: lipgloss.NewStyle().Foreground(subtle),
		ScrollThumb: lipgloss.NewStyle().Foreground(color(theme.FileHeader)),
		LogHash:     lipgloss.NewStyle().Foreground(color(theme.Header)),
		LogDate:     lipgloss.NewStyle().Foreground(color(theme.Hunk)),
		LogAuthor:   lipgloss.NewStyle().Foreground(color(theme.Added)),
	}
}
