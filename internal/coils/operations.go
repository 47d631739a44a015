package coils

import (
	"sync"

	"github.com/fluffware/modbusaudio/internal/modbus"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// ClipPlayer starts playback of the clip bound to a slot.
type ClipPlayer interface {
	PlayClip(slot uint16) error
}

// TriggerFunc is notified after a coil transition to true has been handed
// to the player. err is the playback error, if any.
type TriggerFunc func(addr uint16, err error)

// Operations implements modbus.Operations over a Store. A coil transition
// from off to on plays the clip whose slot equals the coil address; writing
// the value a coil already holds does nothing. Turning a coil off changes
// the store but never plays, so a master can re-arm a slot without sound.
//
// The player and the trigger callback run after the store lock is released,
// so a TriggerFunc may call Coil. Callers that need writes ordered (the
// Modbus handler) serialize SetCoil themselves.
type Operations struct {
	mu        sync.Mutex
	store     *Store
	player    ClipPlayer
	logger    log.Logger
	onTrigger TriggerFunc
}

// Option configures Operations.
type Option func(*Operations)

// WithLogger sets the logger used for playback failures.
func WithLogger(logger log.Logger) Option {
	return func(o *Operations) {
		o.logger = logger
	}
}

// WithTriggerFunc registers a callback invoked for each playback trigger.
func WithTriggerFunc(fn TriggerFunc) Option {
	return func(o *Operations) {
		o.onTrigger = fn
	}
}

// NewOperations returns Operations backed by a fresh Store.
func NewOperations(player ClipPlayer, opts ...Option) *Operations {
	o := &Operations{
		store:  NewStore(),
		player: player,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetInput is not supported; there is no digital input model.
func (o *Operations) GetInput(addr uint16) (bool, error) {
	return false, modbus.ExceptionIllegalDataAddress
}

// GetCoil is not supported; coils are write-only triggers.
func (o *Operations) GetCoil(addr uint16) (bool, error) {
	return false, modbus.ExceptionIllegalDataAddress
}

// SetCoil stores value and, on an off to on transition, plays the clip for
// addr. Playback failures are logged and do not fail the write.
func (o *Operations) SetCoil(addr uint16, value bool) (bool, error) {
	o.mu.Lock()
	changed := o.store.Set(addr, value)
	o.mu.Unlock()

	if !changed {
		return value, nil
	}
	o.logger.Debug("coil changed", log.Uint16("addr", addr), log.Bool("value", value))
	if value {
		o.trigger(addr)
	}
	return value, nil
}

func (o *Operations) trigger(addr uint16) {
	err := o.player.PlayClip(addr)
	if err != nil {
		o.logger.Warn("clip playback failed", log.Uint16("slot", addr), log.Err(err))
	}
	if o.onTrigger != nil {
		o.onTrigger(addr, err)
	}
}

// Coil returns the stored value for addr without going through the Modbus
// read path.
func (o *Operations) Coil(addr uint16) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.store.Get(addr)
}

var _ modbus.Operations = (*Operations)(nil)
