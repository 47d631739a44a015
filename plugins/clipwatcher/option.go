package clipwatcher

import "github.com/fluffware/modbusaudio/pkg/modbusaudio"

// WithClipWatcher returns a bridge Option that reloads clips whenever the
// clip command file changes.
//
// Usage:
//
//	bridge, err := modbusaudio.New(cfg,
//	    clipwatcher.WithClipWatcher(clipwatcher.Config{
//	        DebounceDelay: 500 * time.Millisecond,
//	    }),
//	)
func WithClipWatcher(cfg Config) modbusaudio.Option {
	return modbusaudio.WithPlugin(New(cfg))
}

// WithDefaultClipWatcher returns WithClipWatcher(DefaultConfig()).
func WithDefaultClipWatcher() modbusaudio.Option {
	return WithClipWatcher(DefaultConfig())
}
