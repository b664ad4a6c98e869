package app

import (
	"context"
	"strings"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/log"
)

// pageVisible sends every visible line to the pager. Blank content is not
// worth leaving the dashboard for.
func (c *Controller) pageVisible(ctx context.Context) {
	text := c.state.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	c.page(ctx, text)
}

func (c *Controller) showCommit(ctx context.Context) {
	commit, ok := c.state.SelectedCommit()
	if !ok {
		return
	}
	content, err := c.deps.Shows.Show(ctx, commit.Hash)
	if err != nil {
		log.ErrorErr(log.CatGit, "show failed", err, "hash", commit.Hash)
		return
	}
	c.page(ctx, content)
}

// page hands the terminal to the pager and takes it back.
//
// Running -> Suspending: pause input and wait for the reader to confirm it
// is parked, then leave raw mode and the alternate screen.
// Suspending -> Paged: the pager runs in the foreground until it exits.
// Paged -> Running: re-enter raw mode, drop whatever queued meanwhile, and
// only then let the reader read again. The screen is re-measured and
// redrawn in full.
func (c *Controller) page(ctx context.Context, content string) {
	c.phase = PhaseSuspending
	if !c.deps.Input.Pause(ctx, c.cfg.Grace) {
		log.Warn(log.CatPager, "input reader did not park within grace", "grace", c.cfg.Grace)
	}
	if err := c.deps.Terminal.Suspend(); err != nil {
		log.ErrorErr(log.CatPager, "suspend failed", err)
	}

	c.phase = PhasePaged
	if err := c.deps.Pager.Page(content); err != nil {
		log.Debug(log.CatPager, "pager failed", "error", err)
	}

	if err := c.deps.Terminal.Resume(); err != nil {
		log.ErrorErr(log.CatPager, "resume failed", err)
		c.fatal = err
		c.quit = true
	}

	changed := c.dropQueued()
	c.deps.Input.Resume()
	c.phase = PhaseRunning

	c.measure()
	c.dirty = true
	if changed {
		c.refreshPending = true
	}
}

// dropQueued discards events that arrived while the pager had the
// terminal. It reports whether any of them was a change signal.
func (c *Controller) dropQueued() bool {
	changed := false
	dropped := 0
	for _, ev := range c.deps.Events.Drain() {
		if ev.Kind == event.KindChange {
			changed = true
			continue
		}
		dropped++
	}
	if dropped > 0 {
		log.Debug(log.CatPager, "dropped input queued during pager", "count", dropped)
	}
	return changed
}
