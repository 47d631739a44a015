// Package cliconfig resolves command line configuration from flags, the
// environment and a TOML file, in that order of precedence.
package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fluffware/modbusaudio/internal/domain"
)

// Defaults.
const (
	DefaultListenAddr      = "0.0.0.0:5020"
	DefaultClipsFile       = "modbusaudio.conf"
	DefaultSampleRate      = 44100
	DefaultChannels        = 2
	DefaultFramesPerBuffer = 1024
	DefaultReadTimeout     = time.Second
	DefaultMaxConnections  = 64
	DefaultLogLevel        = "info"
)

// Config holds CLI configuration for modbusaudio.
type Config struct {
	ListenAddr string
	ClipsFile  string

	SampleRate      int
	Channels        int
	FramesPerBuffer int

	ReadTimeout    time.Duration
	MaxConnections int

	StandardEcho bool
	WatchClips   bool
	NoAudio      bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		ClipsFile:       DefaultClipsFile,
		SampleRate:      DefaultSampleRate,
		Channels:        DefaultChannels,
		FramesPerBuffer: DefaultFramesPerBuffer,
		ReadTimeout:     DefaultReadTimeout,
		MaxConnections:  DefaultMaxConnections,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks the configuration. Errors wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.ListenAddr == "" {
		return invalid("listen address is required")
	}
	if c.ClipsFile == "" {
		return invalid("clips file is required")
	}
	if c.SampleRate <= 0 {
		return invalid("sample rate must be positive")
	}
	if c.Channels < 1 || c.Channels > 2 {
		return invalid("channels must be 1 or 2, got %d", c.Channels)
	}
	if c.FramesPerBuffer <= 0 {
		return invalid("frames per buffer must be positive")
	}
	if c.ReadTimeout <= 0 {
		return invalid("read timeout must be positive")
	}
	if c.MaxConnections <= 0 {
		return invalid("max connections must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return invalid("log level %q: %v", c.LogLevel, err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool with strconv.ParseBool and sets
// the destination.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
