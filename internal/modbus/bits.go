package modbus

// UnpackCoils expands packed coil bits, least significant bit first, into
// quantity booleans. Bits beyond the data are reported as false.
func UnpackCoils(data []byte, quantity int) []bool {
	values := make([]bool, quantity)
	for i := 0; i < quantity && i/8 < len(data); i++ {
		values[i] = data[i/8]&(1<<uint(i%8)) != 0
	}
	return values
}

// PackCoils is the inverse of UnpackCoils. The final byte is zero padded.
func PackCoils(values []bool) []byte {
	data := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			data[i/8] |= 1 << uint(i%8)
		}
	}
	return data
}
