package watcher

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultGitPaths are the git-dir paths whose changes alter what the
// dashboard shows. Entries ending in "/" match everything beneath them.
var DefaultGitPaths = []string{"index", "HEAD", "refs/", "MERGE_HEAD", "REBASE_HEAD"}

// Classifier decides which filesystem paths count toward a refresh.
type Classifier struct {
	root     string
	gitDir   string
	gitPaths []string
	extra    []string
	matcher  *ignore.GitIgnore
}

// NewClassifier builds a classifier for the working tree at root. Ignore
// rules come from git's info/exclude, the root .gitignore, and extra, with
// later sources taking precedence. Nested .gitignore files are not read.
func NewClassifier(root, gitDir string, gitPaths, extra []string) *Classifier {
	if len(gitPaths) == 0 {
		gitPaths = DefaultGitPaths
	}
	c := &Classifier{
		root:     filepath.Clean(root),
		gitDir:   filepath.Clean(gitDir),
		gitPaths: gitPaths,
		extra:    extra,
	}
	c.Reload()
	return c
}

// Reload re-reads the ignore files.
func (c *Classifier) Reload() {
	var lines []string
	for _, path := range c.IgnoreFiles() {
		data, err := os.ReadFile(path) //nolint:gosec // G304: paths derive from the repository root
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, c.extra...)
	c.matcher = ignore.CompileIgnoreLines(lines...)
}

// IgnoreFiles lists the files whose contents feed the ignore rules.
func (c *Classifier) IgnoreFiles() []string {
	return []string{
		filepath.Join(c.gitDir, "info", "exclude"),
		filepath.Join(c.root, ".gitignore"),
	}
}

// Relevant reports whether a change at path should trigger a refresh.
// Paths inside the git dir count only when allow-listed; working-tree paths
// count unless ignored; anything else is ignored.
func (c *Classifier) Relevant(path string, isDir bool) bool {
	path = filepath.Clean(path)

	if rel, ok := within(c.gitDir, path); ok {
		return c.allowedGitPath(rel)
	}

	rel, ok := within(c.root, path)
	if !ok || rel == "." {
		return false
	}
	return !c.Ignored(rel, isDir)
}

// Ignored reports whether the root-relative path is excluded by ignore
// rules. Nested repositories and a worktree's .git file are always ignored.
func (c *Classifier) Ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if part == ".git" {
			return true
		}
	}
	if c.matcher.MatchesPath(rel) {
		return true
	}
	// Patterns with a trailing slash only match directories.
	return isDir && c.matcher.MatchesPath(rel+"/")
}

// InGitDir reports whether path lies inside the git directory.
func (c *Classifier) InGitDir(path string) bool {
	_, ok := within(c.gitDir, filepath.Clean(path))
	return ok
}

func (c *Classifier) allowedGitPath(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range c.gitPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(rel+"/", p) && rel+"/" != p {
				return true
			}
			continue
		}
		if rel == p {
			return true
		}
	}
	return false
}

// within returns path relative to base when path is base or below it.
func within(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
