// Package app runs the dashboard's main loop: one goroutine that owns all
// view state and consumes the merged event stream.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/git"
	"github.com/zjrosen/gitmon/internal/input"
	"github.com/zjrosen/gitmon/internal/log"
	"github.com/zjrosen/gitmon/internal/ui"
	"github.com/zjrosen/gitmon/internal/view"
)

// Events is the consumer side of the event multiplexer.
type Events interface {
	Recv(ctx context.Context) (event.Event, error)
	Drain() []event.Event
}

// Terminal is the screen the controller draws on and lends to the pager.
type Terminal interface {
	Size() (width, height int, err error)
	Write(p []byte) (int, error)
	Suspend() error
	Resume() error
	Close() error
}

// Renderer builds a frame and reports the geometry it measured.
type Renderer interface {
	Render(st *view.State, width, height int) (string, ui.Geometry)
}

// Pager shows text in an external process and returns when it exits.
type Pager interface {
	Page(content string) error
}

// Input is the pausable input reader.
type Input interface {
	Pause(ctx context.Context, grace time.Duration) bool
	Resume()
}

// CommitShower returns `git show` output for a commit hash.
type CommitShower interface {
	Show(ctx context.Context, hash string) (string, error)
}

// Phase is where the controller is in the pager hand-off.
type Phase int

const (
	PhaseRunning    Phase = iota // terminal owned by the dashboard
	PhaseSuspending              // input paused, terminal being released
	PhasePaged                   // pager owns the terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseSuspending:
		return "suspending"
	case PhasePaged:
		return "paged"
	default:
		return "running"
	}
}

// Config holds controller settings.
type Config struct {
	LogLimit int
	LeadIn   int
	// Grace bounds the wait for the input reader to park before the
	// terminal is handed to the pager.
	Grace time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLimit: 50,
		LeadIn:   view.DefaultLeadIn,
		Grace:    input.DefaultGrace,
	}
}

// Deps are the collaborators the controller drives.
type Deps struct {
	Executor git.Executor
	Events   Events
	Terminal Terminal
	Renderer Renderer
	Pager    Pager
	Input    Input
	Shows    CommitShower
}

// Controller is the single consumer of the event stream. Nothing else
// touches its state.
type Controller struct {
	cfg  Config
	deps Deps

	state *view.State
	phase Phase

	// backlog holds events pulled off the multiplexer while absorbing a
	// change signal. It is always consumed before the next receive.
	backlog []event.Event

	width  int
	height int

	refreshPending bool
	dirty          bool
	quit           bool
	fatal          error
}

// New creates a controller. Run starts it.
func New(cfg Config, deps Deps) *Controller {
	if cfg.LogLimit <= 0 {
		cfg.LogLimit = DefaultConfig().LogLimit
	}
	if cfg.LeadIn < 0 {
		cfg.LeadIn = DefaultConfig().LeadIn
	}
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultConfig().Grace
	}
	return &Controller{
		cfg:   cfg,
		deps:  deps,
		state: view.New(cfg.LeadIn),
	}
}

// State exposes the view state for inspection.
func (c *Controller) State() *view.State { return c.state }

// Phase reports the pager hand-off phase.
func (c *Controller) Phase() Phase { return c.phase }

// Run loads the first snapshot, draws, and then handles events until a
// quit key, ctx cancellation, or the multiplexer closing. A panic restores
// the terminal before propagating.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			_ = c.deps.Terminal.Close()
			log.Error(log.CatApp, "panic in main loop", "panic", r)
			panic(r)
		}
	}()

	c.measure()
	c.loadInitial()
	c.draw()

	for !c.quit {
		if len(c.backlog) == 0 {
			if c.refreshPending {
				c.refresh()
			}
			if c.dirty {
				c.draw()
			}
		}

		ev, err := c.next(ctx)
		if err != nil {
			if errors.Is(err, event.ErrClosed) || ctx.Err() != nil {
				log.Info(log.CatApp, "event stream ended", "reason", err)
				return nil
			}
			return fmt.Errorf("receiving event: %w", err)
		}
		c.handle(ctx, ev)
	}
	return c.fatal
}

// next takes from the backlog first and only then blocks on the
// multiplexer.
func (c *Controller) next(ctx context.Context) (event.Event, error) {
	if len(c.backlog) > 0 {
		ev := c.backlog[0]
		c.backlog = c.backlog[1:]
		return ev, nil
	}
	return c.deps.Events.Recv(ctx)
}

func (c *Controller) handle(ctx context.Context, ev event.Event) {
	switch ev.Kind {
	case event.KindChange:
		c.absorbChange()
	case event.KindResize:
		c.width, c.height = ev.Width, ev.Height
		c.dirty = true
	case event.KindKey:
		action := Dispatch(c.state, ev.Key)
		c.dirty = true
		c.perform(ctx, action)
	}
}

// absorbChange moves everything queued behind a change signal into the
// backlog. Further change signals there are redundant and get dropped when
// reached; keys and resizes run first, then the one refresh.
func (c *Controller) absorbChange() {
	if c.refreshPending {
		log.Debug(log.CatApp, "coalesced change signal")
		return
	}
	c.refreshPending = true
	c.backlog = append(c.backlog, c.deps.Events.Drain()...)
}

func (c *Controller) perform(ctx context.Context, action Action) {
	switch action {
	case ActionQuit:
		c.quit = true
	case ActionRefresh:
		c.refreshPending = true
	case ActionOpenLog:
		c.openLog()
	case ActionShowCommit:
		c.showCommit(ctx)
	case ActionPageVisible:
		c.pageVisible(ctx)
	}
}

func (c *Controller) loadInitial() {
	snap, err := git.Query(c.deps.Executor)
	if err != nil {
		log.ErrorErr(log.CatGit, "initial query failed", err)
		snap = git.Empty(fmt.Sprintf("git query failed: %v", err))
	}
	c.state.SetSnapshot(snap)
}

// refresh replaces the snapshot. On failure the previous one stays, so the
// status bar keeps showing the last successful capture time.
func (c *Controller) refresh() {
	c.refreshPending = false
	c.dirty = true

	snap, err := git.Query(c.deps.Executor)
	if err != nil {
		log.ErrorErr(log.CatGit, "refresh failed, keeping previous snapshot", err)
		return
	}
	c.state.SetSnapshot(snap)
	log.Debug(log.CatApp, "refreshed", "branch", snap.Branch,
		"unstaged_files", len(snap.Unstaged), "staged_files", len(snap.Staged))
}

func (c *Controller) openLog() {
	entries, err := c.deps.Executor.GetCommitLog(c.cfg.LogLimit)
	if err != nil {
		log.ErrorErr(log.CatGit, "commit log failed", err)
		return
	}
	c.state.OpenCommitLog(entries)
}

func (c *Controller) measure() {
	w, h, err := c.deps.Terminal.Size()
	if err != nil {
		log.Warn(log.CatUI, "terminal size unavailable", "error", err)
		return
	}
	c.width, c.height = w, h
}

// draw renders a frame. When the measured viewport moves scroll the frame
// is rendered again so it matches the clamped state.
func (c *Controller) draw() {
	c.dirty = false
	frame, geo := c.deps.Renderer.Render(c.state, c.width, c.height)
	if c.state.SetViewport(geo.ViewportHeight) {
		frame, _ = c.deps.Renderer.Render(c.state, c.width, c.height)
	}
	if _, err := c.deps.Terminal.Write([]byte(frame)); err != nil {
		log.Warn(log.CatUI, "frame write failed", "error", err)
	}
}
