package modbus

import "encoding/binary"

// MBAP header layout. The function code directly follows the unit id.
const (
	// headerLen covers transaction id, protocol id, length and unit id.
	headerLen = 7

	// lengthPrefix is the number of bytes up to and including the length
	// field; the declared length counts everything after it.
	lengthPrefix = 6

	// minBuffered is the number of bytes needed before the header is
	// inspected.
	minBuffered = 8
)

// Frame is the raw bytes of one Modbus TCP request or response:
// transaction id (2), protocol id (2), length (2), unit id (1) and the PDU.
type Frame []byte

// TransactionID returns the transaction identifier.
func (f Frame) TransactionID() uint16 { return binary.BigEndian.Uint16(f[0:]) }

// ProtocolID returns the protocol identifier, which must be 0 for Modbus.
func (f Frame) ProtocolID() uint16 { return binary.BigEndian.Uint16(f[2:]) }

// Length returns the declared number of bytes following the length field.
func (f Frame) Length() uint16 { return binary.BigEndian.Uint16(f[4:]) }

// UnitID returns the unit identifier.
func (f Frame) UnitID() byte { return f[6] }

// PDU returns the function code and its payload. It is empty when the frame
// carries no function code.
func (f Frame) PDU() []byte {
	if len(f) <= headerLen {
		return nil
	}
	return f[headerLen:]
}

// reply builds a response reusing the request's transaction id, protocol id
// and unit id, with the length field rewritten for body.
func (f Frame) reply(body []byte) Frame {
	out := make(Frame, headerLen+len(body))
	copy(out, f[:headerLen])
	// +1 for the unit id preceding the body.
	binary.BigEndian.PutUint16(out[4:], uint16(len(body)+1))
	copy(out[headerLen:], body)
	return out
}
