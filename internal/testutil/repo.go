// Package testutil provides helpers for tests that need a real git
// repository on disk.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when git is not on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// InitRepo creates an empty repository on branch main in a temp directory,
// with a fixed identity so commits work without global git config.
func InitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)
	dir := t.TempDir()
	Git(t, dir, "init", "-q", "-b", "main")
	Git(t, dir, "config", "user.name", "Test User")
	Git(t, dir, "config", "user.email", "test@example.com")
	Git(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

// Git runs git in dir and returns its trimmed combined output.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// CommitFile writes, stages and commits a single file.
func CommitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	WriteFile(t, dir, name, content)
	Git(t, dir, "add", name)
	Git(t, dir, "commit", "-q", "-m", msg)
}
