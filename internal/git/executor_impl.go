package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Git-specific errors.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNoCommits indicates HEAD does not point at a commit yet.
	ErrNoCommits = errors.New("repository has no commits")

	// ErrUnknownRevision indicates a hash or ref could not be resolved.
	ErrUnknownRevision = errors.New("unknown revision")
)

// DetachedPrefix marks a detached HEAD in the branch name.
const DetachedPrefix = "detached:"

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// runGitOutput executes a git command and returns trimmed stdout.
func (e *RealExecutor) runGitOutput(args ...string) (string, error) {
	out, err := e.runGitRaw(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// runGitRaw executes a git command and returns stdout untouched. Diff and
// status output are column sensitive, so they must not be trimmed.
func (e *RealExecutor) runGitRaw(args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.Command("git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}
	// Without this, git status refreshes .git/index, which the watcher
	// reports as a change and the dashboard would refresh forever.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	// fatal: your current branch 'main' does not have any commits yet
	// fatal: ambiguous argument 'HEAD': unknown revision or path not in the working tree.
	if strings.Contains(stderrLower, "does not have any commits yet") ||
		strings.Contains(stderrLower, "ambiguous argument 'head'") {
		return fmt.Errorf("%w: %s", ErrNoCommits, stderr)
	}

	if strings.Contains(stderrLower, "bad object") ||
		strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "bad revision") {
		return fmt.Errorf("%w: %s", ErrUnknownRevision, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// GetRepoRoot returns the root directory of the git repository.
func (e *RealExecutor) GetRepoRoot() (string, error) {
	return e.runGitOutput("rev-parse", "--show-toplevel")
}

// GetGitDir returns the absolute git directory. For linked worktrees this is
// the per-worktree directory, which holds that worktree's HEAD and index.
func (e *RealExecutor) GetGitDir() (string, error) {
	return e.runGitOutput("rev-parse", "--absolute-git-dir")
}

// GetCurrentBranch returns the name of the current branch.
func (e *RealExecutor) GetCurrentBranch() (string, error) {
	output, err := e.runGitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		if output != "HEAD" {
			return output, nil
		}
		sha, shaErr := e.runGitOutput("rev-parse", "--short", "HEAD")
		if shaErr != nil {
			return "", fmt.Errorf("failed to resolve detached HEAD: %w", shaErr)
		}
		return DetachedPrefix + sha, nil
	}

	// Fallback for an unborn branch: HEAD is symbolic but has no commit.
	output, symErr := e.runGitOutput("symbolic-ref", "--short", "HEAD")
	if symErr != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

// GetLastCommit returns the HEAD commit hash and subject.
func (e *RealExecutor) GetLastCommit() (*CommitInfo, error) {
	output, err := e.runGitOutput("log", "-1", "--format=%H%n%h%n%s")
	if err != nil {
		if errors.Is(err, ErrNoCommits) {
			return nil, nil
		}
		return nil, err
	}
	if output == "" {
		return nil, nil
	}

	parts := strings.SplitN(output, "\n", 3)
	info := &CommitInfo{Hash: parts[0]}
	if len(parts) > 1 {
		info.ShortHash = parts[1]
	}
	if len(parts) > 2 {
		info.Subject = parts[2]
	}
	return info, nil
}

// GetStatusCounts counts porcelain status entries. Column one (index) is
// staged unless blank or untracked; column two (worktree) is unstaged
// unless blank, so untracked files count as unstaged.
func (e *RealExecutor) GetStatusCounts() (int, int, error) {
	output, err := e.runGitRaw("status", "--porcelain")
	if err != nil {
		return 0, 0, err
	}
	staged, unstaged := parseStatusCounts(output)
	return staged, unstaged, nil
}

func parseStatusCounts(output string) (staged, unstaged int) {
	for line := range strings.SplitSeq(output, "\n") {
		if len(line) < 2 {
			continue
		}
		if line[0] != ' ' && line[0] != '?' {
			staged++
		}
		if line[1] != ' ' {
			unstaged++
		}
	}
	return staged, unstaged
}

// GetDiff returns the unified diff for the index or the working tree.
// Color and external diff drivers are disabled so user config cannot
// change the format the parser sees.
func (e *RealExecutor) GetDiff(staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	return e.runGitRaw(args...)
}

// GetCommitLog returns the most recent commits, up to the specified limit.
func (e *RealExecutor) GetCommitLog(limit int) ([]CommitInfo, error) {
	output, err := e.runGitRaw("log", "--format=%H%x00%h%x00%s%x00%an%x00%ar", "-n", strconv.Itoa(limit))
	if err != nil {
		if errors.Is(err, ErrNoCommits) {
			return []CommitInfo{}, nil
		}
		return nil, err
	}
	return parseCommitLog(output), nil
}

func parseCommitLog(output string) []CommitInfo {
	commits := make([]CommitInfo, 0)
	for line := range strings.SplitSeq(output, "\n") {
		parts := strings.SplitN(line, "\x00", 5)
		if len(parts) != 5 {
			continue
		}
		commits = append(commits, CommitInfo{
			Hash:         parts[0],
			ShortHash:    parts[1],
			Subject:      parts[2],
			Author:       parts[3],
			RelativeDate: parts[4],
		})
	}
	return commits
}

// GetCommitShow returns `git show` output for the given commit.
func (e *RealExecutor) GetCommitShow(hash string) (string, error) {
	return e.runGitRaw("show", "--no-color", "--no-ext-diff", hash, "--")
}

// GetConfig returns a config value. An unset key makes git exit 1 with no
// output, which is reported as "" rather than an error.
func (e *RealExecutor) GetConfig(key string) (string, error) {
	output, err := e.runGitOutput("config", "--get", key)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return output, nil
}
