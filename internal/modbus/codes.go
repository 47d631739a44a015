package modbus

import "fmt"

// FunctionCode identifies the operation requested by a Modbus PDU.
type FunctionCode byte

const (
	FunctionCodeReadCoils          FunctionCode = 0x01
	FunctionCodeReadDiscreteInputs FunctionCode = 0x02
	FunctionCodeWriteSingleCoil    FunctionCode = 0x05
	FunctionCodeWriteMultipleCoils FunctionCode = 0x0F

	// exceptionFlag is OR'd into the function code of an exception response.
	exceptionFlag byte = 0x80
)

// ExceptionCode is the single byte carried by a Modbus exception response.
// It implements error so operations can return it directly.
type ExceptionCode byte

const (
	ExceptionIllegalFunction                    ExceptionCode = 0x01
	ExceptionIllegalDataAddress                 ExceptionCode = 0x02
	ExceptionIllegalDataValue                   ExceptionCode = 0x03
	ExceptionServerDeviceFailure                ExceptionCode = 0x04
	ExceptionAcknowledge                        ExceptionCode = 0x05
	ExceptionServerDeviceBusy                   ExceptionCode = 0x06
	ExceptionMemoryParityError                  ExceptionCode = 0x08
	ExceptionGatewayPathUnavailable             ExceptionCode = 0x0A
	ExceptionGatewayTargetDeviceFailedToRespond ExceptionCode = 0x0B
)

var exceptionMessages = map[ExceptionCode]string{
	ExceptionIllegalFunction:                    "illegal function",
	ExceptionIllegalDataAddress:                 "illegal data address",
	ExceptionIllegalDataValue:                   "illegal data value",
	ExceptionServerDeviceFailure:                "server device failure",
	ExceptionAcknowledge:                        "acknowledge",
	ExceptionServerDeviceBusy:                   "server device busy",
	ExceptionMemoryParityError:                  "memory parity error",
	ExceptionGatewayPathUnavailable:             "gateway path unavailable",
	ExceptionGatewayTargetDeviceFailedToRespond: "gateway target device failed to respond",
}

// Error implements error.
func (e ExceptionCode) Error() string {
	if msg, ok := exceptionMessages[e]; ok {
		return "modbus: " + msg
	}
	return fmt.Sprintf("modbus: unknown exception 0x%02x", byte(e))
}
