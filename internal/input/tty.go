package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zjrosen/gitmon/internal/event"
)

// TTYSource reads raw bytes from a terminal file descriptor and reports
// SIGWINCH as resize events.
type TTYSource struct {
	fd    int
	buf   []byte
	winch chan os.Signal
}

// Compile-time checks.
var (
	_ Source    = (*TTYSource)(nil)
	_ Discarder = (*TTYSource)(nil)
)

// NewTTYSource starts listening for window size changes on f's terminal.
// Close releases the signal subscription.
func NewTTYSource(f *os.File) *TTYSource {
	s := &TTYSource{
		fd:    int(f.Fd()),
		buf:   make([]byte, 4096),
		winch: make(chan os.Signal, 1),
	}
	signal.Notify(s.winch, syscall.SIGWINCH)
	return s
}

// Poll waits for readable input or a pending resize.
func (s *TTYSource) Poll(timeout time.Duration) (bool, error) {
	if len(s.winch) > 0 {
		return true, nil
	}
	ready, err := s.pollFd(int(timeout / time.Millisecond))
	if err != nil {
		return false, err
	}
	return ready || len(s.winch) > 0, nil
}

// Read returns a resize event if one is pending, followed by any keys that
// can be read without blocking.
func (s *TTYSource) Read() ([]event.Event, error) {
	var events []event.Event

	select {
	case <-s.winch:
		if w, h, err := term.GetSize(s.fd); err == nil {
			events = append(events, event.ResizeEvent(w, h))
		}
	default:
	}

	ready, err := s.pollFd(0)
	if err != nil || !ready {
		return events, err
	}

	n, err := unix.Read(s.fd, s.buf)
	switch {
	case errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN):
		return events, nil
	case err != nil:
		return events, fmt.Errorf("read tty: %w", err)
	case n == 0:
		return events, io.EOF
	}

	for _, k := range Decode(s.buf[:n]) {
		events = append(events, event.KeyEvent(k))
	}
	return events, nil
}

// Discard drops pending resizes and any unread input.
func (s *TTYSource) Discard() {
	for len(s.winch) > 0 {
		<-s.winch
	}
	scratch := make([]byte, 1024)
	for {
		ready, err := s.pollFd(0)
		if err != nil || !ready {
			return
		}
		if n, err := unix.Read(s.fd, scratch); err != nil || n == 0 {
			return
		}
	}
}

// Close stops SIGWINCH delivery.
func (s *TTYSource) Close() {
	signal.Stop(s.winch)
}

// pollFd reports whether the descriptor is readable (or hung up, so Read
// surfaces the error). EINTR counts as a timeout.
func (s *TTYSource) pollFd(timeoutMs int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}} //nolint:gosec // G115: fd fits in int32
	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("poll tty: %w", err)
	}
	return n > 0 && fds[0].Revents != 0, nil
}
