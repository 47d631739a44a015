// Package ports defines the interfaces (ports) that connect the application
// core to infrastructure adapters.
//
// # Port Interfaces
//
//   - [AudioBackend]: Opens realtime output streams
//   - [AudioStream]: A started/stopped output stream driven by a [StreamCallback]
//   - [ClipDecoder]: Decodes audio files into interleaved 16-bit samples
//   - [ClipSource]: Produces the slot to file mapping loaded at startup
//
// # Usage
//
// The player and the embeddable bridge depend only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them on top of
// gopxl/beep, which keeps the Modbus side testable without an audio device.
package ports
