package modbus

// Operations is the capability set the protocol engine dispatches to.
// Errors should be ExceptionCode values; any other error is reported to the
// client as ExceptionServerDeviceFailure.
type Operations interface {
	// GetInput reads a discrete input.
	GetInput(addr uint16) (bool, error)

	// GetCoil reads a coil.
	GetCoil(addr uint16) (bool, error)

	// SetCoil writes a coil and returns the value the coil now holds.
	SetCoil(addr uint16, value bool) (bool, error)
}

// BulkOperations may be implemented by Operations that handle ranges more
// efficiently than one address at a time. GetInputs, GetCoils and SetCoils
// use it when available.
type BulkOperations interface {
	Operations
	GetInputs(addr uint16, quantity int) ([]bool, error)
	GetCoils(addr uint16, quantity int) ([]bool, error)
	SetCoils(addr uint16, values []bool) error
}

// GetInputs reads quantity inputs starting at addr, stopping at the first
// error.
func GetInputs(ops Operations, addr uint16, quantity int) ([]bool, error) {
	if b, ok := ops.(BulkOperations); ok {
		return b.GetInputs(addr, quantity)
	}
	if !inRange(addr, quantity) {
		return nil, ExceptionIllegalDataAddress
	}
	values := make([]bool, quantity)
	for i := range values {
		v, err := ops.GetInput(addr + uint16(i))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// GetCoils reads quantity coils starting at addr, stopping at the first
// error.
func GetCoils(ops Operations, addr uint16, quantity int) ([]bool, error) {
	if b, ok := ops.(BulkOperations); ok {
		return b.GetCoils(addr, quantity)
	}
	if !inRange(addr, quantity) {
		return nil, ExceptionIllegalDataAddress
	}
	values := make([]bool, quantity)
	for i := range values {
		v, err := ops.GetCoil(addr + uint16(i))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// SetCoils writes values to consecutive coils starting at addr, stopping at
// the first error. Coils written before the error keep their new value.
func SetCoils(ops Operations, addr uint16, values []bool) error {
	if b, ok := ops.(BulkOperations); ok {
		return b.SetCoils(addr, values)
	}
	if !inRange(addr, len(values)) {
		return ExceptionIllegalDataAddress
	}
	for i, v := range values {
		if _, err := ops.SetCoil(addr+uint16(i), v); err != nil {
			return err
		}
	}
	return nil
}

// inRange reports whether quantity addresses starting at addr fit in the
// 16 bit address space.
func inRange(addr uint16, quantity int) bool {
	return quantity >= 0 && int(addr)+quantity <= 0x10000
}
