package git

// CommitInfo holds information about a git commit.
type CommitInfo struct {
	Hash         string // Full 40-char SHA
	ShortHash    string // abbreviated hash as printed by git
	Subject      string // First line of commit message
	Author       string // Author name (log entries only)
	RelativeDate string // e.g. "3 hours ago" (log entries only)
}

// Executor defines the read-only git queries the dashboard needs.
// This abstraction allows for easy testing with fake implementations.
type Executor interface {
	// GetRepoRoot returns the top-level directory of the working tree.
	GetRepoRoot() (string, error)
	// GetGitDir returns the absolute path of the repository's git directory.
	GetGitDir() (string, error)
	// GetCurrentBranch returns the branch name, or "detached:<short sha>"
	// when HEAD is not a symbolic ref.
	GetCurrentBranch() (string, error)
	// GetLastCommit returns the HEAD commit, or nil for a repository with
	// no commits yet.
	GetLastCommit() (*CommitInfo, error)
	// GetStatusCounts returns the number of staged and unstaged entries
	// reported by git status.
	GetStatusCounts() (staged, unstaged int, err error)
	// GetDiff returns raw unified diff text for the index (staged) or the
	// working tree (unstaged).
	GetDiff(staged bool) (string, error)
	// GetCommitLog returns the most recent commits, up to the specified limit.
	// Returns an empty slice for empty repositories.
	GetCommitLog(limit int) ([]CommitInfo, error)
	// GetCommitShow returns the full `git show` output for a commit.
	GetCommitShow(hash string) (string, error)
	// GetConfig returns a git config value, or "" when the key is unset.
	GetConfig(key string) (string, error)
}
