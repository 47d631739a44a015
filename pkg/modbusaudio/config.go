package modbusaudio

import (
	"fmt"
	"time"

	"github.com/fluffware/modbusaudio/internal/domain"
	"github.com/fluffware/modbusaudio/internal/server"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultListenAddr      = server.DefaultAddr
	DefaultSampleRate      = 44100
	DefaultChannels        = 2
	DefaultFramesPerBuffer = 1024
	DefaultReadTimeout     = time.Second
	DefaultMaxConnections  = 64
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the bridge settings.
type Config struct {
	// ListenAddr is the Modbus TCP listen address.
	ListenAddr string

	// ClipsFile is the clip command file. Relative clip paths inside it
	// resolve against its directory.
	ClipsFile string

	// SampleRate, Channels and FramesPerBuffer describe the output stream.
	SampleRate      int
	Channels        int
	FramesPerBuffer int

	// ReadTimeout discards a partial frame that sees no bytes for this long.
	ReadTimeout time.Duration

	// MaxConnections bounds concurrently served clients.
	MaxConnections int

	// StandardEcho answers write single coil with the standard 5 byte echo
	// instead of the 3 byte body.
	StandardEcho bool

	// ShutdownTimeout bounds how long Stop waits for connections to close.
	ShutdownTimeout time.Duration
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.FramesPerBuffer == 0 {
		c.FramesPerBuffer = DefaultFramesPerBuffer
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.MaxConnections == 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks the configuration. Errors wrap domain.ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return invalid("listen address is required")
	case c.SampleRate <= 0:
		return invalid("sample rate must be positive, got %d", c.SampleRate)
	case c.Channels < 1 || c.Channels > 2:
		return invalid("channels must be 1 or 2, got %d", c.Channels)
	case c.FramesPerBuffer <= 0:
		return invalid("frames per buffer must be positive, got %d", c.FramesPerBuffer)
	case c.ReadTimeout < 0:
		return invalid("read timeout must not be negative")
	case c.MaxConnections < 0:
		return invalid("max connections must not be negative")
	case c.ShutdownTimeout <= 0:
		return invalid("shutdown timeout must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
