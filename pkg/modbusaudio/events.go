package modbusaudio

import "github.com/fluffware/modbusaudio/internal/app"

// State is the bridge run state.
type State = app.State

// Bridge states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ClipTriggerEvent is emitted when a coil turns on. Err is the playback
// error; the Modbus write succeeds regardless.
type ClipTriggerEvent struct {
	Slot uint16
	Err  error
}

// ClipsLoadedEvent is emitted after the clip library has been (re)built.
type ClipsLoadedEvent struct {
	Slots []uint16
}

// EventHandler receives bridge events.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnClipTriggered(ClipTriggerEvent)
	OnClipsLoaded(ClipsLoadedEvent)
}

// eventEmitter adapts an optional EventHandler to the internal emitters.
type eventEmitter struct {
	handler EventHandler
}

func (e *eventEmitter) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}

func (e *eventEmitter) clipTriggered(slot uint16, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnClipTriggered(ClipTriggerEvent{Slot: slot, Err: err})
}

func (e *eventEmitter) clipsLoaded(slots []uint16) {
	if e.handler == nil {
		return
	}
	e.handler.OnClipsLoaded(ClipsLoadedEvent{Slots: slots})
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only the events you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)   {}
func (BaseEventHandler) OnClipTriggered(ClipTriggerEvent) {}
func (BaseEventHandler) OnClipsLoaded(ClipsLoadedEvent)   {}
