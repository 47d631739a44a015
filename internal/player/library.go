package player

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Clip is an immutable sequence of interleaved 16-bit samples.
type Clip struct {
	Slot    uint16
	Samples []int16
}

// Library maps clip slots to clips. Reads are lock free; writers publish a
// fresh copy of the map, so a clip handed to the audio callback is never
// mutated.
type Library struct {
	mu    sync.Mutex // serializes writers
	clips atomic.Pointer[map[uint16]*Clip]
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	l := &Library{}
	empty := map[uint16]*Clip{}
	l.clips.Store(&empty)
	return l
}

// Get returns the clip bound to slot.
func (l *Library) Get(slot uint16) (*Clip, bool) {
	c, ok := (*l.clips.Load())[slot]
	return c, ok
}

// Set binds samples to slot, replacing any previous clip. The library takes
// ownership of samples.
func (l *Library) Set(slot uint16, samples []int16) {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := *l.clips.Load()
	next := make(map[uint16]*Clip, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[slot] = &Clip{Slot: slot, Samples: samples}
	l.clips.Store(&next)
}

// Replace swaps in a complete new set of clips.
func (l *Library) Replace(clips map[uint16][]int16) {
	next := make(map[uint16]*Clip, len(clips))
	for slot, samples := range clips {
		next[slot] = &Clip{Slot: slot, Samples: samples}
	}

	l.mu.Lock()
	l.clips.Store(&next)
	l.mu.Unlock()
}

// Slots returns the registered slots in ascending order.
func (l *Library) Slots() []uint16 {
	m := *l.clips.Load()
	slots := make([]uint16, 0, len(m))
	for s := range m {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}
