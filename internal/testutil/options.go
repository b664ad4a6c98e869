package testutil

import "testing"

// FileSpec is one file written by the builder.
type FileSpec struct {
	Name    string
	Content string
}

// File creates a FileSpec.
func File(name, content string) FileSpec {
	return FileSpec{Name: name, Content: content}
}

// RepoOption adjusts a freshly initialized repository before any content
// is written.
type RepoOption func(t *testing.T, dir string)

// WithConfig sets a repository-local git config value.
func WithConfig(key, value string) RepoOption {
	return func(t *testing.T, dir string) {
		t.Helper()
		Git(t, dir, "config", key, value)
	}
}

// WithGitignore writes a .gitignore before the first commit.
func WithGitignore(content string) RepoOption {
	return func(t *testing.T, dir string) {
		t.Helper()
		WriteFile(t, dir, ".gitignore", content)
	}
}
