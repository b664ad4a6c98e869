// Package terminal owns the process-wide terminal state: raw mode, the
// alternate screen and cursor visibility. Acquire it once with Open and
// release it with Close; Close is safe to call from deferred and recovery
// paths more than once.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/zjrosen/gitmon/internal/log"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// ModeController switches a file descriptor in and out of raw mode.
type ModeController interface {
	MakeRaw(fd int) (*term.State, error)
	Restore(fd int, state *term.State) error
	GetSize(fd int) (width, height int, err error)
}

type xterm struct{}

func (xterm) MakeRaw(fd int) (*term.State, error) { return term.MakeRaw(fd) }
func (xterm) Restore(fd int, state *term.State) error { return term.Restore(fd, state) }
func (xterm) GetSize(fd int) (width, height int, err error) { return term.GetSize(fd) }

// Terminal is the acquired terminal.
type Terminal struct {
	in     *os.File
	out    io.Writer
	outFd  int
	output *termenv.Output
	modes  ModeController

	mu     sync.Mutex
	state  *term.State
	active bool

	closeOnce sync.Once
	closeErr  error
}

// Open puts in into raw mode and switches out to the alternate screen with
// the cursor hidden.
func Open(in, out *os.File) (*Terminal, error) {
	if !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return nil, ErrNotTerminal
	}
	t := newTerminal(in, out, int(out.Fd()), xterm{})
	if err := t.enter(); err != nil {
		return nil, err
	}
	return t, nil
}

func newTerminal(in *os.File, out io.Writer, outFd int, modes ModeController) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		outFd:  outFd,
		output: termenv.NewOutput(out),
		modes:  modes,
	}
}

func (t *Terminal) enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return nil
	}

	state, err := t.modes.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.state = state
	t.output.AltScreen()
	t.output.HideCursor()
	t.output.ClearScreen()
	t.active = true
	return nil
}

func (t *Terminal) leave() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return nil
	}
	t.active = false

	t.output.ShowCursor()
	t.output.ExitAltScreen()
	if t.state == nil {
		return nil
	}
	if err := t.modes.Restore(int(t.in.Fd()), t.state); err != nil {
		return fmt.Errorf("restoring terminal mode: %w", err)
	}
	return nil
}

// Suspend hands the terminal back in cooked mode on the main screen, for
// a foreground child process.
func (t *Terminal) Suspend() error {
	log.Debug(log.CatPager, "Suspending terminal")
	return t.leave()
}

// Resume re-acquires raw mode and the alternate screen after Suspend.
func (t *Terminal) Resume() error {
	log.Debug(log.CatPager, "Resuming terminal")
	return t.enter()
}

// Active reports whether the terminal is currently in raw mode on the
// alternate screen.
func (t *Terminal) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Size returns the current width and height in cells.
func (t *Terminal) Size() (width, height int, err error) {
	width, height, err = t.modes.GetSize(t.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("reading terminal size: %w", err)
	}
	return width, height, nil
}

// Write writes a frame to the terminal. Frames written while suspended are
// dropped.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return len(p), nil
	}
	return t.out.Write(p)
}

// Close restores the terminal. Only the first call does any work.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.leave()
	})
	return t.closeErr
}
