package modbus

import (
	"encoding/binary"
	"errors"
)

// ErrProtocolMismatch is returned by Engine.Next when the buffered bytes do
// not start with a Modbus header. The buffer has been discarded.
var ErrProtocolMismatch = errors.New("modbus: protocol id mismatch, buffer discarded")

// Engine reassembles Modbus TCP frames from a byte stream. One Engine serves
// one connection and is not safe for concurrent use.
type Engine struct {
	buf []byte
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{buf: make([]byte, 0, 260)}
}

// Feed appends bytes read from the connection.
func (e *Engine) Feed(p []byte) {
	e.buf = append(e.buf, p...)
}

// Reset discards all buffered bytes.
func (e *Engine) Reset() {
	e.buf = e.buf[:0]
}

// Buffered returns the number of bytes waiting for a complete frame.
func (e *Engine) Buffered() int {
	return len(e.buf)
}

// Next extracts at most one complete frame from the front of the buffer,
// leaving any remainder in place. ok is false when more bytes are needed.
// A nonzero protocol id discards everything buffered and returns
// ErrProtocolMismatch.
func (e *Engine) Next() (frame Frame, ok bool, err error) {
	if len(e.buf) < minBuffered {
		return nil, false, nil
	}
	if binary.BigEndian.Uint16(e.buf[2:]) != 0 {
		e.Reset()
		return nil, false, ErrProtocolMismatch
	}
	n := int(binary.BigEndian.Uint16(e.buf[4:])) + lengthPrefix
	if len(e.buf) < n {
		return nil, false, nil
	}
	frame = make(Frame, n)
	copy(frame, e.buf[:n])
	rest := copy(e.buf, e.buf[n:])
	e.buf = e.buf[:rest]
	return frame, true, nil
}
