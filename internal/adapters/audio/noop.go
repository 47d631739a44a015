package audio

import (
	"sync/atomic"

	"github.com/fluffware/modbusaudio/internal/ports"
)

// NoopBackend opens streams that track start/stop state but never render.
// It lets the bridge run without an audio device.
type NoopBackend struct{}

// NewNoopBackend returns a NoopBackend.
func NewNoopBackend() *NoopBackend {
	return &NoopBackend{}
}

// Open returns a silent stream.
func (NoopBackend) Open(ports.StreamFormat, ports.StreamCallback) (ports.AudioStream, error) {
	return &noopStream{}, nil
}

type noopStream struct {
	running atomic.Bool
}

func (s *noopStream) Start() error {
	s.running.Store(true)
	return nil
}

func (s *noopStream) Stop() error {
	if !s.running.Swap(false) {
		return ports.ErrStreamStopped
	}
	return nil
}

func (s *noopStream) Close() error {
	s.running.Store(false)
	return nil
}
