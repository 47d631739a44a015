package modbusaudio_test

import (
	"context"
	"fmt"

	"github.com/fluffware/modbusaudio/internal/adapters/audio"
	"github.com/fluffware/modbusaudio/pkg/modbusaudio"
	"github.com/fluffware/modbusaudio/plugins/clipwatcher"
)

// ExampleNew demonstrates how to embed the bridge in your application.
func ExampleNew() {
	cfg := modbusaudio.Config{
		ListenAddr: "127.0.0.1:0",
		ClipsFile:  "/path/to/clips.conf",
	}

	// Run headless with a fixed clip list instead of reading ClipsFile.
	b, err := modbusaudio.New(cfg,
		modbusaudio.WithAudioBackend(audio.NewNoopBackend()),
		modbusaudio.WithClipSource(emptySource{}),
	)
	if err != nil {
		fmt.Printf("failed to create bridge: %v\n", err)
		return
	}

	if err := b.Start(context.Background()); err != nil {
		fmt.Printf("failed to start: %v\n", err)
		return
	}
	fmt.Println("Status:", b.Status())

	_ = b.Stop()
	fmt.Println("Status:", b.Status())

	// Output:
	// Status: Running
	// Status: Stopped
}

type emptySource struct{}

func (emptySource) Clips() ([]modbusaudio.ClipSpec, error) { return nil, nil }

// Example_withEventHandler demonstrates how to receive bridge events.
func Example_withEventHandler() {
	cfg := modbusaudio.Config{ClipsFile: "/path/to/clips.conf"}

	b, err := modbusaudio.New(cfg, modbusaudio.WithEventHandler(&myEventHandler{}))
	if err != nil {
		fmt.Printf("failed to create bridge: %v\n", err)
		return
	}

	_ = b // Start, serve, Stop...
}

// myEventHandler logs clip triggers and ignores everything else.
type myEventHandler struct {
	modbusaudio.BaseEventHandler
}

func (h *myEventHandler) OnClipTriggered(event modbusaudio.ClipTriggerEvent) {
	if event.Err != nil {
		fmt.Printf("slot %d failed: %v\n", event.Slot, event.Err)
		return
	}
	fmt.Printf("slot %d playing\n", event.Slot)
}

// Example_withClipWatcher demonstrates hot reloading the clip file.
func Example_withClipWatcher() {
	cfg := modbusaudio.Config{ClipsFile: "/path/to/clips.conf"}

	b, err := modbusaudio.New(cfg, clipwatcher.WithDefaultClipWatcher())
	if err != nil {
		fmt.Printf("failed to create bridge: %v\n", err)
		return
	}

	// The watcher starts with the bridge and stops with it.
	_ = b
}
