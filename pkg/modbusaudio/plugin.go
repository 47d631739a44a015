package modbusaudio

import (
	"context"

	"github.com/fluffware/modbusaudio/pkg/log"
)

// Plugin extends the bridge with work that runs alongside the server.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called from Start before clips are loaded. An error
	// aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called from Stop after the server has closed.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to plugins on Initialize.
type PluginConfig struct {
	ClipsFile  string
	ListenAddr string
	Logger     log.Logger

	// ReloadClips rebuilds the clip library from ClipsFile.
	ReloadClips func() error
}
