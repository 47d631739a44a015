// Package audio implements the audio ports on top of gopxl/beep.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/fluffware/modbusaudio/internal/ports"
)

// ErrStreamClosed is returned when starting a closed stream.
var ErrStreamClosed = errors.New("audio: stream is closed")

// ErrFormatChanged is returned when the speaker is reopened with a sample
// rate or buffer size other than the one it was first initialized with.
var ErrFormatChanged = errors.New("audio: speaker already initialized with a different format")

// deviceInit matches speaker.Init.
type deviceInit func(sr beep.SampleRate, bufferSize int) error

// speakerDevice initializes beep's process global speaker exactly once.
// beep refuses a second Init even after Close, so the device stays open for
// the life of the process and streams only add and clear mixer entries.
type speakerDevice struct {
	init       deviceInit
	once       sync.Once
	err        error
	sampleRate int
	frames     int
}

func (d *speakerDevice) open(format ports.StreamFormat) error {
	d.once.Do(func() {
		d.sampleRate = format.SampleRate
		d.frames = format.FramesPerBuffer
		d.err = d.init(beep.SampleRate(format.SampleRate), format.FramesPerBuffer)
	})
	if d.err != nil {
		return fmt.Errorf("init speaker: %w", d.err)
	}
	if format.SampleRate != d.sampleRate || format.FramesPerBuffer != d.frames {
		return fmt.Errorf("%w: have %d Hz/%d frames, want %d Hz/%d frames",
			ErrFormatChanged, d.sampleRate, d.frames, format.SampleRate, format.FramesPerBuffer)
	}
	return nil
}

var defaultDevice = &speakerDevice{init: speaker.Init}

// SpeakerBackend opens output streams on the default device through
// beep's speaker package. The speaker is process global, so only one stream
// should be open at a time. Every backend shares one device, and the first
// successful Open fixes its sample rate and buffer size.
type SpeakerBackend struct {
	device *speakerDevice
}

// NewSpeakerBackend returns a SpeakerBackend.
func NewSpeakerBackend() *SpeakerBackend {
	return &SpeakerBackend{device: defaultDevice}
}

// Open initializes the speaker for format on first use and returns a
// stopped stream.
func (b *SpeakerBackend) Open(format ports.StreamFormat, callback ports.StreamCallback) (ports.AudioStream, error) {
	if format.Channels < 1 || format.Channels > 2 {
		return nil, fmt.Errorf("audio: unsupported channel count %d", format.Channels)
	}
	device := b.device
	if device == nil {
		device = defaultDevice
	}
	if err := device.open(format); err != nil {
		return nil, err
	}
	return &speakerStream{r: newRenderer(format, callback)}, nil
}

// speakerStream adds its renderer to the speaker mixer while running.
type speakerStream struct {
	r      *renderer
	closed atomic.Bool
}

func (s *speakerStream) Start() error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	if !s.r.running.CompareAndSwap(false, true) {
		return nil
	}
	speaker.Play(s.r)
	return nil
}

func (s *speakerStream) Stop() error {
	if !s.r.running.Swap(false) {
		return ports.ErrStreamStopped
	}
	// Clear waits for the speaker lock, so the callback is not running when
	// it returns.
	speaker.Clear()
	return nil
}

func (s *speakerStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.r.running.Swap(false) {
		speaker.Clear()
	}
	return nil
}

// renderer adapts a StreamCallback to beep.Streamer. It converts the
// callback's interleaved int16 samples to beep's stereo float frames using a
// scratch buffer allocated once.
type renderer struct {
	channels int
	callback ports.StreamCallback
	scratch  []int16
	running  atomic.Bool
}

func newRenderer(format ports.StreamFormat, callback ports.StreamCallback) *renderer {
	frames := format.FramesPerBuffer
	if frames <= 0 {
		frames = 1024
	}
	return &renderer{
		channels: format.Channels,
		callback: callback,
		scratch:  make([]int16, frames*format.Channels),
	}
}

// Stream implements beep.Streamer.
func (r *renderer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	perCall := len(r.scratch) / r.channels
	for filled < len(samples) {
		frames := min(len(samples)-filled, perCall)
		buf := r.scratch[:frames*r.channels]
		status := r.callback(buf)
		toFrames(samples[filled:filled+frames], buf, r.channels)
		filled += frames
		if status == ports.Complete {
			r.running.Store(false)
			return filled, false
		}
	}
	return filled, true
}

// Err implements beep.Streamer.
func (r *renderer) Err() error {
	return nil
}

const int16Scale = 1.0 / 32768

func toFrames(dst [][2]float64, src []int16, channels int) {
	for i := range dst {
		if channels == 1 {
			v := float64(src[i]) * int16Scale
			dst[i] = [2]float64{v, v}
			continue
		}
		dst[i][0] = float64(src[2*i]) * int16Scale
		dst[i][1] = float64(src[2*i+1]) * int16Scale
	}
}
