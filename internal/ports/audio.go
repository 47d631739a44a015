package ports

import "errors"

// ErrStreamStopped is returned by AudioStream.Stop when the stream is not
// running. Callers that only need the stream quiet treat it as success.
var ErrStreamStopped = errors.New("audio: stream is stopped")

// StreamStatus is returned by a StreamCallback.
type StreamStatus int

const (
	// Continue asks the backend to keep calling the callback.
	Continue StreamStatus = iota

	// Complete tells the backend the audio has ended; the stream may stop
	// itself.
	Complete
)

// StreamCallback fills out with interleaved 16-bit samples. It runs on the
// backend's realtime goroutine and must not block or allocate.
type StreamCallback func(out []int16) StreamStatus

// StreamFormat describes an output stream.
type StreamFormat struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// AudioStream is an output stream owned by a single player.
type AudioStream interface {
	// Start begins invoking the callback. Starting a running stream is a
	// no-op.
	Start() error

	// Stop halts the callback. Returns ErrStreamStopped if the stream was
	// not running.
	Stop() error

	// Close stops the stream and releases the device.
	Close() error
}

// AudioBackend opens output streams.
type AudioBackend interface {
	Open(format StreamFormat, callback StreamCallback) (AudioStream, error)
}
