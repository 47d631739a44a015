package domain

import "errors"

// Errors returned by the public API. Check them with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running bridge.
	ErrAlreadyRunning = errors.New("modbusaudio: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped bridge.
	ErrNotRunning = errors.New("modbusaudio: not running")

	// ErrShutdownTimeout is returned when connections do not drain in time.
	ErrShutdownTimeout = errors.New("modbusaudio: shutdown timeout")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("modbusaudio: invalid configuration")
)
