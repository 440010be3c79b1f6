package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeafMapOrderingIsLeafThenSubleafAscending(t *testing.T) {
	m := NewLeafMap()
	m.Set(7, 1, RegisterSet{EAX: 1})
	m.Set(1, 0, RegisterSet{EAX: 2})
	m.Set(7, 0, RegisterSet{EAX: 3})
	m.Set(0, 0, RegisterSet{EAX: 4})

	assert.Equal(t, []LeafId{0, 1, 7}, m.Leaves())
	assert.Equal(t, []SubleafId{0, 1}, m.Subleaves(7))
	assert.Equal(t, 3, m.Len())
}

func TestLeafMapGetMissing(t *testing.T) {
	m := NewLeafMap()
	_, ok := m.Get(1, 0)
	assert.False(t, ok)
}

func TestRegisterSetValue(t *testing.T) {
	rs := RegisterSet{EAX: 1, EBX: 2, ECX: 3, EDX: 4}
	assert.Equal(t, uint32(1), rs.Value(RegEAX))
	assert.Equal(t, uint32(2), rs.Value(RegEBX))
	assert.Equal(t, uint32(3), rs.Value(RegECX))
	assert.Equal(t, uint32(4), rs.Value(RegEDX))
}

func TestRegString(t *testing.T) {
	assert.Equal(t, "EAX", RegEAX.String())
	assert.Equal(t, "EDX", RegEDX.String())
}
