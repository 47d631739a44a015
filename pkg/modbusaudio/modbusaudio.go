package modbusaudio

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/fluffware/modbusaudio/internal/adapters/audio"
	"github.com/fluffware/modbusaudio/internal/app"
	"github.com/fluffware/modbusaudio/internal/clipconfig"
	"github.com/fluffware/modbusaudio/internal/coils"
	"github.com/fluffware/modbusaudio/internal/domain"
	"github.com/fluffware/modbusaudio/internal/modbus"
	"github.com/fluffware/modbusaudio/internal/player"
	"github.com/fluffware/modbusaudio/internal/ports"
	"github.com/fluffware/modbusaudio/internal/server"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// Errors re-exported for errors.Is checks.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)

// Bridge serves Modbus TCP and plays clips on coil writes.
// Use New() to create an instance, then Start() to begin serving.
type Bridge struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	emitter   *eventEmitter
	logger    log.Logger
	library   *player.Library
	plugins   []Plugin

	reloadMu sync.Mutex

	mu     sync.Mutex
	player *player.Player
	ops    *coils.Operations
	server *server.Server
	active []Plugin
}

// New creates a Bridge in StateStopped. Nothing is opened until Start.
func New(cfg Config, opts ...Option) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.source == nil {
		if cfg.ClipsFile == "" {
			return nil, fmt.Errorf("%w: clips file is required", domain.ErrInvalidConfig)
		}
		o.source = clipconfig.FileSource{Path: cfg.ClipsFile, Logger: o.logger}
	}
	if o.decoder == nil {
		o.decoder = audio.WAVDecoder{SampleRate: cfg.SampleRate, Channels: cfg.Channels}
	}
	if o.backend == nil {
		o.backend = audio.NewSpeakerBackend()
	}

	emitter := &eventEmitter{handler: o.eventHandler}
	return &Bridge{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		emitter:   emitter,
		logger:    o.logger,
		library:   player.NewLibrary(),
		plugins:   o.plugins,
	}, nil
}

// Start initializes plugins, loads the clips, opens the output stream and
// binds the listener. It returns once the server is accepting connections.
// Cancelling ctx shuts the server down as Stop does, without waiting.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := b.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.lifecycle.SetCancel(cancel)

	fail := func(reason string, err error) error {
		cancel()
		b.shutdownPlugins()
		if b.player != nil {
			_ = b.player.Close()
			b.player = nil
		}
		_ = b.lifecycle.TransitionTo(app.StateCrashed, reason)
		return err
	}

	pluginCfg := PluginConfig{
		ClipsFile:   b.config.ClipsFile,
		ListenAddr:  b.config.ListenAddr,
		Logger:      b.logger,
		ReloadClips: b.ReloadClips,
	}
	for _, p := range b.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			b.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return fail("plugin init failed: "+p.Name(), err)
		}
		b.active = append(b.active, p)
		b.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	if err := b.ReloadClips(); err != nil {
		return fail("clip load failed", err)
	}

	format := ports.StreamFormat{
		SampleRate:      b.config.SampleRate,
		Channels:        b.config.Channels,
		FramesPerBuffer: b.config.FramesPerBuffer,
	}
	pl, err := player.New(b.opts.backend, format, b.logger, player.WithLibrary(b.library))
	if err != nil {
		return fail("audio open failed", err)
	}
	b.player = pl

	b.ops = coils.NewOperations(pl,
		coils.WithLogger(b.logger),
		coils.WithTriggerFunc(b.emitter.clipTriggered))
	handler := modbus.NewHandler(b.ops, modbus.WithStandardEcho(b.config.StandardEcho))
	srv := server.New(server.Config{
		Addr:           b.config.ListenAddr,
		ReadTimeout:    b.config.ReadTimeout,
		MaxConnections: b.config.MaxConnections,
	}, handler, b.logger)
	if err := srv.Listen(); err != nil {
		return fail("listen failed", err)
	}
	b.server = srv

	if err := b.lifecycle.TransitionTo(app.StateRunning, "listening"); err != nil {
		return fail("transition failed", err)
	}

	b.lifecycle.Go(func() {
		err := srv.Serve(runCtx)
		if cerr := pl.Close(); cerr != nil {
			b.logger.Warn("closing output stream failed", log.Err(cerr))
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Error("server error", log.Err(err))
			_ = b.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	})
	return nil
}

// Stop closes the listener and every connection, waits for them up to
// Config.ShutdownTimeout, then shuts plugins down in reverse order.
// Returns ErrShutdownTimeout if connections did not finish in time.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	if !b.lifecycle.CanStop() {
		b.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := b.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		b.mu.Unlock()
		return err
	}
	b.lifecycle.Cancel()
	b.mu.Unlock()

	err := b.lifecycle.WaitWithTimeout(b.config.ShutdownTimeout)

	b.mu.Lock()
	b.shutdownPlugins()
	b.player = nil
	b.server = nil
	b.ops = nil
	b.mu.Unlock()

	if err != nil {
		_ = b.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = b.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins stops initialized plugins in reverse order. b.mu is held.
func (b *Bridge) shutdownPlugins() {
	ctx := context.Background()
	for i := len(b.active) - 1; i >= 0; i-- {
		p := b.active[i]
		if err := p.Shutdown(ctx); err != nil {
			b.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		} else {
			b.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
	b.active = nil
}

// Status returns the current lifecycle state.
func (b *Bridge) Status() State {
	return b.lifecycle.State()
}

// Addr returns the bound listen address, or nil when not running.
func (b *Bridge) Addr() net.Addr {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.server == nil {
		return nil
	}
	return b.server.Addr()
}

// ReloadClips decodes every clip listed by the clip source and replaces the
// library in one step. On error the previous library stays in place. A clip
// that is playing keeps playing from its old samples.
func (b *Bridge) ReloadClips() error {
	b.reloadMu.Lock()
	defer b.reloadMu.Unlock()

	specs, err := b.opts.source.Clips()
	if err != nil {
		return err
	}
	clips := make(map[uint16][]int16, len(specs))
	for _, spec := range specs {
		samples, err := b.opts.decoder.Decode(spec.Path)
		if err != nil {
			return fmt.Errorf("load clip %d: %w", spec.Slot, err)
		}
		if _, dup := clips[spec.Slot]; dup {
			b.logger.Warn("slot declared twice, keeping the later clip", log.Uint16("slot", spec.Slot))
		}
		clips[spec.Slot] = samples
		b.logger.Debug("clip loaded",
			log.Uint16("slot", spec.Slot),
			log.String("path", spec.Path),
			log.Int("samples", len(samples)))
	}
	b.library.Replace(clips)

	slots := b.library.Slots()
	b.logger.Info("clips loaded", log.Int("count", len(slots)))
	b.emitter.clipsLoaded(slots)
	return nil
}

// AddClip decodes path and registers it under slot, replacing any clip
// there. A playing clip keeps its samples. The next ReloadClips replaces the
// whole set, so clips added here last only until then.
func (b *Bridge) AddClip(slot uint16, path string) error {
	b.mu.Lock()
	pl := b.player
	b.mu.Unlock()

	b.reloadMu.Lock()
	defer b.reloadMu.Unlock()

	samples, err := b.opts.decoder.Decode(path)
	if err != nil {
		return fmt.Errorf("load clip %d: %w", slot, err)
	}
	// The player shares b.library, so a stale pl still lands in the right place.
	if pl != nil {
		pl.AddClip(slot, samples)
	} else {
		b.library.Set(slot, samples)
	}

	b.logger.Debug("clip added",
		log.Uint16("slot", slot),
		log.String("path", path),
		log.Int("samples", len(samples)))
	b.emitter.clipsLoaded(b.library.Slots())
	return nil
}

// Coil returns the current value of a coil, false when not running.
func (b *Bridge) Coil(addr uint16) bool {
	b.mu.Lock()
	ops := b.ops
	b.mu.Unlock()
	if ops == nil {
		return false
	}
	return ops.Coil(addr)
}
