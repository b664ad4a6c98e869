package testutil

import "testing"

type commitData struct {
	files []FileSpec
	msg   string
}

// RepoBuilder accumulates repository contents and creates them in order:
// commits, then staged changes, then unstaged changes.
type RepoBuilder struct {
	t        *testing.T
	commits  []commitData
	staged   []FileSpec
	unstaged []FileSpec
	opts     []RepoOption
}

// NewRepoBuilder starts a repository description.
func NewRepoBuilder(t *testing.T, opts ...RepoOption) *RepoBuilder {
	t.Helper()
	return &RepoBuilder{t: t, opts: opts}
}

// WithCommit adds a commit containing the given files.
func (b *RepoBuilder) WithCommit(msg string, files ...FileSpec) *RepoBuilder {
	b.commits = append(b.commits, commitData{files: files, msg: msg})
	return b
}

// WithStaged writes a file and adds it to the index.
func (b *RepoBuilder) WithStaged(name, content string) *RepoBuilder {
	b.staged = append(b.staged, FileSpec{Name: name, Content: content})
	return b
}

// WithUnstaged writes a file without staging it.
func (b *RepoBuilder) WithUnstaged(name, content string) *RepoBuilder {
	b.unstaged = append(b.unstaged, FileSpec{Name: name, Content: content})
	return b
}

// Build creates the repository and returns its directory.
func (b *RepoBuilder) Build() string {
	b.t.Helper()
	dir := InitRepo(b.t)
	for _, opt := range b.opts {
		opt(b.t, dir)
	}
	for _, c := range b.commits {
		for _, f := range c.files {
			WriteFile(b.t, dir, f.Name, f.Content)
			Git(b.t, dir, "add", f.Name)
		}
		Git(b.t, dir, "commit", "-q", "--allow-empty", "-m", c.msg)
	}
	for _, f := range b.staged {
		WriteFile(b.t, dir, f.Name, f.Content)
		Git(b.t, dir, "add", f.Name)
	}
	for _, f := range b.unstaged {
		WriteFile(b.t, dir, f.Name, f.Content)
	}
	return dir
}
