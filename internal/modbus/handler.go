package modbus

import (
	"encoding/binary"
	"errors"
	"sync"
)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithStandardEcho makes write-single-coil responses echo the request PDU
// (function, address, value) as standard Modbus masters expect. Without
// it the response body is the function code followed by 0xFF00 or 0x0000
// reflecting the accepted value.
func WithStandardEcho(enabled bool) HandlerOption {
	return func(h *Handler) {
		h.standardEcho = enabled
	}
}

// Handler decodes request frames, dispatches them to Operations and encodes
// the response. A single Handler is shared by all connections of a server;
// requests are serialized so that coil updates never interleave.
type Handler struct {
	mu           sync.Mutex
	ops          Operations
	standardEcho bool
}

// NewHandler returns a Handler dispatching to ops.
func NewHandler(ops Operations, opts ...HandlerOption) *Handler {
	h := &Handler{ops: ops}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one request frame. ok is false when the frame carries no
// function code, in which case nothing should be sent back.
func (h *Handler) Handle(req Frame) (resp Frame, ok bool) {
	pdu := req.PDU()
	if len(pdu) == 0 {
		return nil, false
	}

	h.mu.Lock()
	body, err := h.dispatch(pdu)
	h.mu.Unlock()

	if err != nil {
		body = []byte{pdu[0] | exceptionFlag, byte(exceptionFor(err))}
	}
	return req.reply(body), true
}

func (h *Handler) dispatch(pdu []byte) ([]byte, error) {
	switch FunctionCode(pdu[0]) {
	case FunctionCodeWriteSingleCoil:
		return h.writeSingleCoil(pdu)
	case FunctionCodeWriteMultipleCoils:
		return h.writeMultipleCoils(pdu)
	default:
		return nil, ExceptionIllegalFunction
	}
}

// writeSingleCoil handles function|addrHi|addrLo|valueHi|valueLo.
func (h *Handler) writeSingleCoil(pdu []byte) ([]byte, error) {
	if len(pdu) != 5 {
		return nil, ExceptionIllegalDataValue
	}
	addr := binary.BigEndian.Uint16(pdu[1:])
	accepted, err := h.ops.SetCoil(addr, pdu[3] != 0)
	if err != nil {
		return nil, err
	}
	if h.standardEcho {
		return append([]byte(nil), pdu...), nil
	}
	if accepted {
		return []byte{pdu[0], 0xFF, 0x00}, nil
	}
	return []byte{pdu[0], 0x00, 0x00}, nil
}

// writeMultipleCoils handles function|addr(2)|quantity(2)|byteCount|bits.
func (h *Handler) writeMultipleCoils(pdu []byte) ([]byte, error) {
	if len(pdu) < 6 || int(pdu[5])+6 != len(pdu) {
		return nil, ExceptionIllegalDataValue
	}
	addr := binary.BigEndian.Uint16(pdu[1:])
	quantity := int(binary.BigEndian.Uint16(pdu[3:]))
	byteCount := int(pdu[5])
	if quantity == 0 || quantity > byteCount*8 {
		return nil, ExceptionIllegalDataValue
	}
	if !inRange(addr, quantity) {
		return nil, ExceptionIllegalDataAddress
	}
	if err := SetCoils(h.ops, addr, UnpackCoils(pdu[6:], quantity)); err != nil {
		return nil, err
	}
	return append([]byte(nil), pdu[:5]...), nil
}

// exceptionFor maps an operation error onto a Modbus exception code.
func exceptionFor(err error) ExceptionCode {
	var code ExceptionCode
	if errors.As(err, &code) {
		return code
	}
	return ExceptionServerDeviceFailure
}
