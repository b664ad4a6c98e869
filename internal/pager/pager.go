// Package pager hands text to the user's external pager.
package pager

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/zjrosen/gitmon/internal/log"
)

// DefaultCommand is used when nothing else names a pager.
const DefaultCommand = "less"

// GitConfigFunc reads a git config value; "" means unset.
type GitConfigFunc func(key string) (string, error)

// Detect picks the pager command the same way git does, with an explicit
// configured command taking precedence: configured, GIT_PAGER, core.pager,
// PAGER, then less.
func Detect(configured string, gitConfig GitConfigFunc) string {
	if cmd := strings.TrimSpace(configured); cmd != "" {
		return cmd
	}
	if cmd := strings.TrimSpace(os.Getenv("GIT_PAGER")); cmd != "" {
		return cmd
	}
	if gitConfig != nil {
		cmd, err := gitConfig("core.pager")
		if err != nil {
			log.Debug(log.CatPager, "core.pager lookup failed", "error", err)
		} else if cmd = strings.TrimSpace(cmd); cmd != "" {
			return cmd
		}
	}
	if cmd := strings.TrimSpace(os.Getenv("PAGER")); cmd != "" {
		return cmd
	}
	return DefaultCommand
}

// Runner runs a pager command through the shell.
type Runner struct {
	Command string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRunner creates a runner writing to the process's stdout and stderr.
func NewRunner(command string) *Runner {
	return &Runner{
		Command: command,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Page pipes content to the pager on stdin and waits for it to exit.
func (r *Runner) Page(content string) error {
	command := ensurePagingAlways(r.Command)

	//nolint:gosec // G204: the pager command is user configuration, as with git
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pager %q: %w", command, err)
	}
	return nil
}

// ensurePagingAlways appends --paging=always when the command runs delta
// without choosing a paging mode, since delta does not page when its
// stdout is not what it expects.
func ensurePagingAlways(command string) string {
	hasDelta := false
	for _, tok := range strings.Fields(command) {
		if tok == "delta" || strings.HasSuffix(tok, "/delta") {
			hasDelta = true
			break
		}
	}
	if hasDelta && !strings.Contains(command, "--paging") {
		return command + " --paging=always"
	}
	return command
}
