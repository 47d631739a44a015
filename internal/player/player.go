// Package player plays pre-loaded PCM clips on a single realtime output
// stream.
//
// Writers hand the next clip to the audio callback through a one-slot
// mailbox (an atomic pointer). The callback claims it with a single swap, so
// it never waits on a writer.
package player

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fluffware/modbusaudio/internal/ports"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// Player owns the output stream and its callback.
type Player struct {
	mu      sync.Mutex // serializes PlayClip and Close
	stream  ports.AudioStream
	library *Library
	logger  log.Logger

	// pending is the mailbox shared with the callback.
	pending atomic.Pointer[Clip]

	// current and cursor belong to the callback goroutine.
	current []int16
	cursor  int
}

// Option configures a Player.
type Option func(*Player)

// WithLibrary makes the player read clips from l instead of a private
// library, so clips survive reopening the stream.
func WithLibrary(l *Library) Option {
	return func(p *Player) {
		p.library = l
	}
}

// New opens an output stream on backend and returns a Player bound to it.
// The stream is left stopped until the first PlayClip.
func New(backend ports.AudioBackend, format ports.StreamFormat, logger log.Logger, opts ...Option) (*Player, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	p := &Player{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.library == nil {
		p.library = NewLibrary()
	}
	stream, err := backend.Open(format, p.fill)
	if err != nil {
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// Library returns the clip library backing the player.
func (p *Player) Library() *Library {
	return p.library
}

// AddClip registers samples under slot, replacing any earlier clip. It is
// the single clip entry point; bulk loads go through Library.Replace. The
// player takes ownership of samples. Publication is copy-on-write, so a clip
// already playing keeps its samples.
func (p *Player) AddClip(slot uint16, samples []int16) {
	p.library.Set(slot, samples)
}

// PlayClip switches playback to the clip in slot. The stream is stopped
// first; an unknown slot leaves it stopped and is not an error.
func (p *Player) PlayClip(slot uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.stream.Stop(); err != nil && !errors.Is(err, ports.ErrStreamStopped) {
		return fmt.Errorf("stop stream: %w", err)
	}
	clip, ok := p.library.Get(slot)
	if !ok {
		p.logger.Debug("no clip registered", log.Uint16("slot", slot))
		return nil
	}
	p.pending.Store(clip)
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	return nil
}

// Close stops playback and releases the output stream.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream.Close()
}

// fill is the realtime callback.
func (p *Player) fill(out []int16) ports.StreamStatus {
	if next := p.pending.Swap(nil); next != nil {
		p.current = next.Samples
		p.cursor = 0
	}

	n := copy(out, p.current[p.cursor:])
	p.cursor += n
	clear(out[n:])

	if p.cursor >= len(p.current) {
		return ports.Complete
	}
	return ports.Continue
}
