package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bulkOperations counts how often the range methods are used.
type bulkOperations struct {
	*mockOperations
	bulkSets int
}

func (b *bulkOperations) GetInputs(addr uint16, quantity int) ([]bool, error) {
	return make([]bool, quantity), nil
}

func (b *bulkOperations) GetCoils(addr uint16, quantity int) ([]bool, error) {
	return make([]bool, quantity), nil
}

func (b *bulkOperations) SetCoils(addr uint16, values []bool) error {
	b.bulkSets++
	return nil
}

func TestGetCoils_DefaultLoop(t *testing.T) {
	ops := newMockOperations()
	ops.coils[5] = true
	ops.coils[7] = true

	got, err := GetCoils(ops, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true}, got)
}

func TestGetInputs_ShortCircuits(t *testing.T) {
	_, err := GetInputs(newMockOperations(), 0, 3)
	assert.ErrorIs(t, err, ExceptionIllegalDataAddress)
}

func TestSetCoils_RangeCheck(t *testing.T) {
	ops := newMockOperations()
	err := SetCoils(ops, 0xFFFF, []bool{true, true})
	assert.ErrorIs(t, err, ExceptionIllegalDataAddress)
	assert.Empty(t, ops.calls)

	require.NoError(t, SetCoils(ops, 0xFFFF, []bool{true}))
	assert.Equal(t, []setCall{{0xFFFF, true}}, ops.calls)
}

func TestSetCoils_PrefersBulk(t *testing.T) {
	b := &bulkOperations{mockOperations: newMockOperations()}

	require.NoError(t, SetCoils(b, 0, []bool{true, false}))
	assert.Equal(t, 1, b.bulkSets)
	assert.Empty(t, b.calls)
}
