package modbusaudio

import (
	"github.com/fluffware/modbusaudio/internal/ports"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// Re-exported collaborator interfaces.
type (
	// AudioBackend opens realtime output streams.
	AudioBackend = ports.AudioBackend

	// ClipDecoder turns an audio file into interleaved 16-bit samples.
	ClipDecoder = ports.ClipDecoder

	// ClipSource lists the clips to load.
	ClipSource = ports.ClipSource

	// ClipSpec binds a slot to a file.
	ClipSpec = ports.ClipSpec
)

// Option configures optional behavior of the bridge.
type Option func(*options)

type options struct {
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
	backend      AudioBackend
	decoder      ClipDecoder
	source       ClipSource
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for bridge events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin. Plugins are initialized in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithAudioBackend replaces the default speaker backend.
func WithAudioBackend(backend AudioBackend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithClipDecoder replaces the default WAV decoder.
func WithClipDecoder(decoder ClipDecoder) Option {
	return func(o *options) {
		o.decoder = decoder
	}
}

// WithClipSource replaces reading Config.ClipsFile.
func WithClipSource(source ClipSource) Option {
	return func(o *options) {
		o.source = source
	}
}
