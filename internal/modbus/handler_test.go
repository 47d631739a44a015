package modbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setCall struct {
	addr  uint16
	value bool
}

// mockOperations records writes and can fail on a given address.
type mockOperations struct {
	coils  map[uint16]bool
	calls  []setCall
	failAt map[uint16]error
}

func newMockOperations() *mockOperations {
	return &mockOperations{coils: map[uint16]bool{}, failAt: map[uint16]error{}}
}

func (m *mockOperations) GetInput(addr uint16) (bool, error) {
	return false, ExceptionIllegalDataAddress
}

func (m *mockOperations) GetCoil(addr uint16) (bool, error) {
	return m.coils[addr], nil
}

func (m *mockOperations) SetCoil(addr uint16, value bool) (bool, error) {
	if err, ok := m.failAt[addr]; ok {
		return false, err
	}
	m.calls = append(m.calls, setCall{addr, value})
	m.coils[addr] = value
	return value, nil
}

func handle(t *testing.T, h *Handler, req []byte) []byte {
	t.Helper()
	resp, ok := h.Handle(Frame(req))
	require.True(t, ok)
	return resp
}

func TestHandler_WriteSingleCoil(t *testing.T) {
	ops := newMockOperations()
	h := NewHandler(ops)

	resp := handle(t, h, writeCoil3On)

	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x04, 0x01, 0x05, 0xFF, 0x00}, resp)
	assert.Equal(t, []setCall{{3, true}}, ops.calls)
}

func TestHandler_WriteSingleCoilOff(t *testing.T) {
	ops := newMockOperations()
	h := NewHandler(ops)

	req := []byte{0x12, 0x34, 0x00, 0x00, 0x00, 0x06, 0x07, 0x05, 0x01, 0x00, 0x00, 0x00}
	resp := handle(t, h, req)

	assert.Equal(t, []byte{0x12, 0x34, 0x00, 0x00, 0x00, 0x04, 0x07, 0x05, 0x00, 0x00}, resp)
	assert.Equal(t, []setCall{{0x0100, false}}, ops.calls)
}

func TestHandler_WriteSingleCoilStandardEcho(t *testing.T) {
	h := NewHandler(newMockOperations(), WithStandardEcho(true))

	resp := handle(t, h, writeCoil3On)

	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x01, 0x05, 0x00, 0x03, 0xFF, 0x00}, resp)
}

func TestHandler_WriteSingleCoilWrongLength(t *testing.T) {
	ops := newMockOperations()
	h := NewHandler(ops)

	req := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x05, 0x01, 0x05, 0x00, 0x03, 0xFF}
	resp := handle(t, h, req)

	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x01, 0x85, 0x03}, resp)
	assert.Empty(t, ops.calls)
}

func TestHandler_UnknownFunction(t *testing.T) {
	h := NewHandler(newMockOperations())

	req := []byte{0xAB, 0xCD, 0x00, 0x00, 0x00, 0x02, 0x01, 99}
	resp := handle(t, h, req)

	assert.Equal(t, []byte{0xAB, 0xCD, 0x00, 0x00, 0x00, 0x03, 0x01, 0xE3, 0x01}, resp)
}

func TestHandler_ReadCoilsIsIllegalFunction(t *testing.T) {
	h := NewHandler(newMockOperations())

	req := []byte{0x00, 0x09, 0x00, 0x00, 0x00, 0x06, 0x01, 0x01, 0x00, 0x00, 0x00, 0x08}
	resp := handle(t, h, req)

	assert.Equal(t, []byte{0x00, 0x09, 0x00, 0x00, 0x00, 0x03, 0x01, 0x81, 0x01}, resp)
}

func TestHandler_WriteMultipleCoils(t *testing.T) {
	ops := newMockOperations()
	h := NewHandler(ops)

	// addr 0x0010, quantity 10, byteCount 2, bits 0xCD 0x01
	req := []byte{0x00, 0x07, 0x00, 0x00, 0x00, 0x09, 0x01, 0x0F, 0x00, 0x10, 0x00, 0x0A, 0x02, 0xCD, 0x01}
	resp := handle(t, h, req)

	assert.Equal(t, []byte{0x00, 0x07, 0x00, 0x00, 0x00, 0x06, 0x01, 0x0F, 0x00, 0x10, 0x00, 0x0A}, resp)
	want := []setCall{
		{0x10, true}, {0x11, false}, {0x12, true}, {0x13, true},
		{0x14, false}, {0x15, false}, {0x16, true}, {0x17, true},
		{0x18, true}, {0x19, false},
	}
	assert.Equal(t, want, ops.calls)
}

func TestHandler_WriteMultipleCoilsAllEightBits(t *testing.T) {
	ops := newMockOperations()
	h := NewHandler(ops)

	req := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x0F, 0x00, 0x00, 0x00, 0x08, 0x01, 0x81}
	handle(t, h, req)

	require.Len(t, ops.calls, 8)
	assert.Equal(t, setCall{0, true}, ops.calls[0])
	assert.Equal(t, setCall{7, true}, ops.calls[7])
	for _, c := range ops.calls[1:7] {
		assert.False(t, c.value, "addr %d", c.addr)
	}
}

func TestHandler_WriteMultipleCoilsInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  []byte
		want byte
	}{
		{
			name: "byte count mismatch",
			req:  []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x0F, 0x00, 0x00, 0x00, 0x08, 0x02, 0xFF},
			want: byte(ExceptionIllegalDataValue),
		},
		{
			name: "short payload",
			req:  []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x04, 0x01, 0x0F, 0x00, 0x00},
			want: byte(ExceptionIllegalDataValue),
		},
		{
			name: "quantity exceeds bits",
			req:  []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x0F, 0x00, 0x00, 0x00, 0x09, 0x01, 0xFF},
			want: byte(ExceptionIllegalDataValue),
		},
		{
			name: "address overflow",
			req:  []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x0F, 0xFF, 0xFE, 0x00, 0x04, 0x01, 0x0F},
			want: byte(ExceptionIllegalDataAddress),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newMockOperations()
			resp := handle(t, NewHandler(ops), tt.req)

			require.Len(t, resp, 9)
			assert.Equal(t, byte(0x8F), resp[7])
			assert.Equal(t, tt.want, resp[8])
			assert.Empty(t, ops.calls)
		})
	}
}

func TestHandler_OperationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want byte
	}{
		{"exception code", ExceptionServerDeviceBusy, 0x06},
		{"wrapped exception", errors.Join(errors.New("ctx"), ExceptionGatewayPathUnavailable), 0x0A},
		{"plain error", errors.New("boom"), 0x04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newMockOperations()
			ops.failAt[3] = tt.err

			resp := handle(t, NewHandler(ops), writeCoil3On)

			assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x01, 0x85, tt.want}, resp)
		})
	}
}

func TestHandler_MultipleCoilsStopsAtFirstError(t *testing.T) {
	ops := newMockOperations()
	ops.failAt[2] = ExceptionServerDeviceFailure

	req := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x01, 0x0F, 0x00, 0x00, 0x00, 0x04, 0x01, 0x0F}
	resp := handle(t, NewHandler(ops), req)

	assert.Equal(t, byte(0x8F), resp[7])
	assert.Equal(t, byte(0x04), resp[8])
	assert.Equal(t, []setCall{{0, true}, {1, true}}, ops.calls)
}

func TestHandler_FrameWithoutFunctionCode(t *testing.T) {
	h := NewHandler(newMockOperations())
	_, ok := h.Handle(Frame{0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x01})
	assert.False(t, ok)
}

func TestExceptionCode_Error(t *testing.T) {
	assert.Equal(t, "modbus: illegal function", ExceptionIllegalFunction.Error())
	assert.Equal(t, "modbus: unknown exception 0x07", ExceptionCode(7).Error())
}
