// Package modbusaudio provides an embeddable Modbus TCP to audio bridge.
//
// A Modbus master switches coils; every coil that goes from off to on plays
// the audio clip whose slot number equals the coil address. Clips are
// declared in a clip command file:
//
//	# slot  file
//	audio 0 chime.wav
//	audio 3 "door bell.wav"
//
// # Basic Usage
//
//	cfg := modbusaudio.Config{
//	    ListenAddr: "0.0.0.0:5020",
//	    ClipsFile:  "/etc/modbusaudio/clips.conf",
//	}
//
//	bridge, err := modbusaudio.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := bridge.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := bridge.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Dependency Injection
//
// The audio device, the clip decoder and the clip list can be replaced with
// [WithAudioBackend], [WithClipDecoder] and [WithClipSource]. Tests use these
// to run the bridge without sound hardware.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// state changes, clip reloads and playback triggers. Trigger events are
// delivered synchronously from the connection goroutine that wrote the
// coil, so handlers should return quickly.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized in registration
// order when the bridge starts and shut down in reverse order when it stops.
package modbusaudio
