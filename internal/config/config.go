// Package config provides configuration types and defaults for gitmon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/viper"

	"github.com/zjrosen/gitmon/internal/log"
)

// Config holds all configuration options for gitmon.
type Config struct {
	DebounceMs int         `mapstructure:"debounce_ms"`
	Pager      string      `mapstructure:"pager"`
	LogLimit   int         `mapstructure:"log_limit"`
	Watch      WatchConfig `mapstructure:"watch"`
	UI         UIConfig    `mapstructure:"ui"`
	Theme      ThemeConfig `mapstructure:"theme"`
}

// WatchConfig tunes which filesystem events trigger a refresh.
type WatchConfig struct {
	// ExtraIgnores are gitignore-syntax patterns applied after the
	// repository's own ignore files.
	ExtraIgnores []string `mapstructure:"extra_ignores"`

	// GitPaths replaces the git-dir allow-list when non-empty. Entries
	// ending in "/" match everything below them.
	GitPaths []string `mapstructure:"git_paths"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	ShowHelpBar  bool `mapstructure:"show_help_bar"`
	SearchLeadIn int  `mapstructure:"search_lead_in"` // lines kept above a search match
}

// ThemeConfig holds colors as "#RRGGBB", "#RGB" or an ANSI index "0".."255".
type ThemeConfig struct {
	Added      string `mapstructure:"added"`
	Removed    string `mapstructure:"removed"`
	Hunk       string `mapstructure:"hunk"`
	Header     string `mapstructure:"header"`
	FileHeader string `mapstructure:"file_header"`
	Match      string `mapstructure:"match"`
	Subtle     string `mapstructure:"subtle"`
	StatusBar  string `mapstructure:"status_bar"`
}

// Limits enforced by Validate.
const (
	MinDebounceMs = 10
	MaxDebounceMs = 10000
	MinLogLimit   = 1
	MaxLogLimit   = 1000
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DebounceMs: 200,
		Pager:      "", // detected from git and the environment
		LogLimit:   50,
		Watch: WatchConfig{
			ExtraIgnores: []string{},
			GitPaths:     []string{},
		},
		UI: UIConfig{
			ShowHelpBar:  true,
			SearchLeadIn: 5,
		},
		Theme: ThemeConfig{
			Added:      "2",
			Removed:    "1",
			Hunk:       "6",
			Header:     "3",
			FileHeader: "#7D56F4",
			Match:      "#FFD700",
			Subtle:     "8",
			StatusBar:  "#3C3C3C",
		},
	}
}

// SetDefaults registers every default with v so partially written config
// files and environment overrides fill in the rest.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debounce_ms", d.DebounceMs)
	v.SetDefault("pager", d.Pager)
	v.SetDefault("log_limit", d.LogLimit)
	v.SetDefault("watch.extra_ignores", d.Watch.ExtraIgnores)
	v.SetDefault("watch.git_paths", d.Watch.GitPaths)
	v.SetDefault("ui.show_help_bar", d.UI.ShowHelpBar)
	v.SetDefault("ui.search_lead_in", d.UI.SearchLeadIn)
	v.SetDefault("theme.added", d.Theme.Added)
	v.SetDefault("theme.removed", d.Theme.Removed)
	v.SetDefault("theme.hunk", d.Theme.Hunk)
	v.SetDefault("theme.header", d.Theme.Header)
	v.SetDefault("theme.file_header", d.Theme.FileHeader)
	v.SetDefault("theme.match", d.Theme.Match)
	v.SetDefault("theme.subtle", d.Theme.Subtle)
	v.SetDefault("theme.status_bar", d.Theme.StatusBar)
}

// Validate checks cfg for values the dashboard cannot run with.
func Validate(cfg Config) error {
	if cfg.DebounceMs < MinDebounceMs || cfg.DebounceMs > MaxDebounceMs {
		return fmt.Errorf("debounce_ms must be between %d and %d, got %d", MinDebounceMs, MaxDebounceMs, cfg.DebounceMs)
	}
	if cfg.LogLimit < MinLogLimit || cfg.LogLimit > MaxLogLimit {
		return fmt.Errorf("log_limit must be between %d and %d, got %d", MinLogLimit, MaxLogLimit, cfg.LogLimit)
	}
	if cfg.UI.SearchLeadIn < 0 {
		return fmt.Errorf("ui.search_lead_in must not be negative, got %d", cfg.UI.SearchLeadIn)
	}
	return ValidateTheme(cfg.Theme)
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks every theme color. Empty colors are allowed and
// render with the terminal default.
func ValidateTheme(theme ThemeConfig) error {
	colors := []struct {
		key   string
		value string
	}{
		{"added", theme.Added},
		{"removed", theme.Removed},
		{"hunk", theme.Hunk},
		{"header", theme.Header},
		{"file_header", theme.FileHeader},
		{"match", theme.Match},
		{"subtle", theme.Subtle},
		{"status_bar", theme.StatusBar},
	}
	for _, c := range colors {
		if !validColor(c.value) {
			return fmt.Errorf("theme.%s: invalid color %q (use #RRGGBB, #RGB or 0-255)", c.key, c.value)
		}
	}
	return nil
}

func validColor(s string) bool {
	if s == "" || hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# gitmon configuration

# Milliseconds to wait after the first filesystem event before refreshing.
# Every event inside the window is folded into one refresh.
debounce_ms: 200

# Pager used for "d" and for showing commits. When empty, gitmon follows git:
# GIT_PAGER, then core.pager, then PAGER, then less.
# pager: delta --side-by-side

# Number of commits listed by the commit log screen ("l").
log_limit: 50

watch:
  # Extra gitignore-style patterns that never trigger a refresh.
  extra_ignores: []
  #  - "*.log"
  #  - "tmp/"

  # Paths inside the git directory that do trigger a refresh.
  # Leave empty for the built-in list: index, HEAD, refs/, MERGE_HEAD, REBASE_HEAD
  git_paths: []

ui:
  show_help_bar: true   # Key hints under the status bar
  search_lead_in: 5     # Lines kept above a search match when jumping to it

# Colors: "#RRGGBB", "#RGB" or an ANSI color index "0".."255".
theme:
  added: "2"
  removed: "1"
  hunk: "6"
  header: "3"
  file_header: "#7D56F4"
  match: "#FFD700"
  subtle: "8"
  status_bar: "#3C3C3C"
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
