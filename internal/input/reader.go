// Package input reads the terminal and forwards normalized key and resize
// events. The reader can be paused so a foreground process borrowing the
// terminal does not race it for input.
package input

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zjrosen/gitmon/internal/event"
	"github.com/zjrosen/gitmon/internal/log"
)

// Source is a pollable input stream.
type Source interface {
	// Poll waits up to timeout and reports whether Read has input ready.
	Poll(timeout time.Duration) (bool, error)
	// Read returns the events currently available. It must not block when
	// the preceding Poll reported ready.
	Read() ([]event.Event, error)
}

// Discarder is implemented by sources that can drop input buffered while
// the reader was paused.
type Discarder interface {
	Discard()
}

// Sink receives the reader's events.
type Sink interface {
	Send(ctx context.Context, ev event.Event) error
}

// Config holds reader timing.
type Config struct {
	// PollTimeout bounds each wait for input so the pause flag is observed
	// promptly.
	PollTimeout time.Duration
	// PauseInterval is how long the reader sleeps between pause checks.
	PauseInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollTimeout:   100 * time.Millisecond,
		PauseInterval: 50 * time.Millisecond,
	}
}

// DefaultGrace bounds how long Pause waits for the reader to park. It is
// longer than one poll cycle.
const DefaultGrace = 150 * time.Millisecond

// Reader forwards events from a Source to a Sink.
type Reader struct {
	src    Source
	sink   Sink
	cfg    Config
	paused atomic.Bool
	parked chan struct{}
}

// NewReader creates a reader. Call Run to start it.
func NewReader(src Source, sink Sink, cfg Config) *Reader {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultConfig().PollTimeout
	}
	if cfg.PauseInterval <= 0 {
		cfg.PauseInterval = DefaultConfig().PauseInterval
	}
	return &Reader{
		src:    src,
		sink:   sink,
		cfg:    cfg,
		parked: make(chan struct{}, 1),
	}
}

// Run reads until ctx is done, the sink rejects an event, or the source
// fails. It returns silently in every case.
func (r *Reader) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if r.paused.Load() {
			r.ackParked()
			if !sleep(ctx, r.cfg.PauseInterval) {
				return
			}
			continue
		}

		ready, err := r.src.Poll(r.cfg.PollTimeout)
		if err != nil {
			log.Debug(log.CatInput, "poll failed, reader exiting", "error", err)
			return
		}
		// A pause may have started while polling; leave the input for
		// whoever is taking over the terminal.
		if !ready || r.paused.Load() {
			continue
		}

		events, err := r.src.Read()
		if err != nil {
			log.Debug(log.CatInput, "read failed, reader exiting", "error", err)
			return
		}
		for _, ev := range events {
			if err := r.sink.Send(ctx, ev); err != nil {
				return
			}
		}
	}
}

// Pause stops the reader from touching the terminal and waits until it
// confirms it is parked, or until grace elapses. It reports whether the
// acknowledgment arrived.
func (r *Reader) Pause(ctx context.Context, grace time.Duration) bool {
	// Drop an acknowledgment left over from an earlier pause.
	select {
	case <-r.parked:
	default:
	}

	r.paused.Store(true)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-r.parked:
		return true
	case <-timer.C:
		log.Debug(log.CatInput, "reader did not acknowledge pause", "grace", grace)
		return false
	case <-ctx.Done():
		return false
	}
}

// Resume discards input buffered by the source during the pause and lets
// the reader poll again.
func (r *Reader) Resume() {
	if d, ok := r.src.(Discarder); ok {
		d.Discard()
	}
	r.paused.Store(false)
}

// Paused reports whether the reader is paused.
func (r *Reader) Paused() bool {
	return r.paused.Load()
}

func (r *Reader) ackParked() {
	select {
	case r.parked <- struct{}{}:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
