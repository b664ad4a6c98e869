// Package event defines the events every producer feeds the controller and
// the channel that carries them.
package event

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Kind identifies what produced an event.
type Kind int

const (
	KindKey    Kind = iota // keyboard input
	KindChange             // coalesced repository change signal
	KindResize             // terminal size changed
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindChange:
		return "change"
	case KindResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is an immutable signal delivered to the controller. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind   Kind
	Key    tea.Key
	Width  int
	Height int
}

// KeyEvent wraps a normalized key press.
func KeyEvent(k tea.Key) Event {
	return Event{Kind: KindKey, Key: k}
}

// ChangeEvent is the content-free "something changed" trigger.
func ChangeEvent() Event {
	return Event{Kind: KindChange}
}

// ResizeEvent carries the new terminal dimensions.
func ResizeEvent(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return fmt.Sprintf("key(%s)", e.Key)
	case KindResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}
