package git

import (
	"fmt"
	"time"

	"github.com/zjrosen/gitmon/internal/diff"
	"github.com/zjrosen/gitmon/internal/log"
)

const (
	noBranch      = "(no branch)"
	unknownBranch = "(unknown)"
)

// Snapshot is everything needed to render one frame. It is built once per
// refresh and never mutated afterwards; a refresh replaces it wholesale.
type Snapshot struct {
	Branch        string
	LastCommit    *CommitInfo
	StagedCount   int
	UnstagedCount int
	// Staged and Unstaged are parsed from separate git invocations and are
	// never merged.
	Staged   []diff.FileDiff
	Unstaged []diff.FileDiff
	// Notice replaces the unstaged content with a single message line.
	// Only placeholder snapshots set it.
	Notice     string
	CapturedAt time.Time
}

// Files returns the file sections for the requested view.
func (s *Snapshot) Files(staged bool) []diff.FileDiff {
	if s == nil {
		return nil
	}
	if staged {
		return s.Staged
	}
	return s.Unstaged
}

// IsPlaceholder reports whether the snapshot was built by Empty.
func (s *Snapshot) IsPlaceholder() bool {
	return s != nil && s.Notice != ""
}

// Query builds a snapshot from the repository. Branch and last-commit
// lookups degrade gracefully so an empty repository still renders; status
// or diff failures fail the whole query so the caller keeps its previous
// snapshot.
func Query(executor Executor) (*Snapshot, error) {
	branch, err := executor.GetCurrentBranch()
	if err != nil {
		log.Debug(log.CatGit, "branch lookup failed", "error", err)
		branch = noBranch
	}

	last, err := executor.GetLastCommit()
	if err != nil {
		log.Debug(log.CatGit, "last commit lookup failed", "error", err)
		last = nil
	}

	staged, unstaged, err := executor.GetStatusCounts()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	unstagedRaw, err := executor.GetDiff(false)
	if err != nil {
		return nil, fmt.Errorf("unstaged diff: %w", err)
	}
	stagedRaw, err := executor.GetDiff(true)
	if err != nil {
		return nil, fmt.Errorf("staged diff: %w", err)
	}

	return &Snapshot{
		Branch:        branch,
		LastCommit:    last,
		StagedCount:   staged,
		UnstagedCount: unstaged,
		Staged:        diff.Parse(stagedRaw),
		Unstaged:      diff.Parse(unstagedRaw),
		CapturedAt:    time.Now(),
	}, nil
}

// Empty returns a placeholder snapshot whose unstaged view shows reason.
func Empty(reason string) *Snapshot {
	return &Snapshot{
		Branch:     unknownBranch,
		Notice:     reason,
		CapturedAt: time.Now(),
	}
}
