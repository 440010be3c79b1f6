package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateSubleavesTerminatedOnZero(t *testing.T) {
	calls := 0
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		calls++
		if sub < 3 {
			return RegisterSet{EAX: uint32(sub) + 1}
		}
		return RegisterSet{}
	}
	m := NewLeafMap()
	EnumerateSubleaves(exec, m, 0x04, PlanOptions{})
	assert.Equal(t, []SubleafId{0, 1, 2}, m.Subleaves(0x04))
	assert.Equal(t, 4, calls)
}

func TestEnumerateSubleavesBoundedByEAX(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		if sub == 0 {
			return RegisterSet{EAX: 3}
		}
		return RegisterSet{EAX: uint32(sub) * 10}
	}
	m := NewLeafMap()
	EnumerateSubleaves(exec, m, 0x0B, PlanOptions{})
	require.Equal(t, []SubleafId{0, 1, 2}, m.Subleaves(0x0B))
	rs, _ := m.Get(0x0B, 2)
	assert.Equal(t, uint32(20), rs.EAX)
}

func TestEnumerateSubleavesMaskBased(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		if sub == 0 {
			return RegisterSet{EAX: (1 << 0) | (1 << 2)}
		}
		return RegisterSet{EAX: 0xAA}
	}
	m := NewLeafMap()
	EnumerateSubleaves(exec, m, 0x0D, PlanOptions{})
	assert.Equal(t, []SubleafId{0, 1, 3}, m.Subleaves(0x0D))
}

func TestEnumerateSubleavesFixedSet(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		return RegisterSet{EAX: uint32(sub)}
	}
	m := NewLeafMap()
	EnumerateSubleaves(exec, m, 0x40000003, PlanOptions{})
	assert.Equal(t, []SubleafId{0, 1, 2}, m.Subleaves(0x40000003))
}

func TestEnumerateSubleavesSingleDefaultsToZero(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		return RegisterSet{EAX: 42}
	}
	m := NewLeafMap()
	EnumerateSubleaves(exec, m, 2, PlanOptions{})
	assert.Equal(t, []SubleafId{0}, m.Subleaves(2))
}

func TestEnumerateRangeSkipsAMDOnlyLeavesOnIntel(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		return RegisterSet{EAX: uint32(leaf)}
	}
	m := NewLeafMap()
	EnumerateRange(exec, m, 0x8000001B, 0x8000001B, VendorIntel, PlanOptions{})
	_, ok := m.Get(0x8000001B, 0)
	assert.False(t, ok)
}

func TestEnumerateRangeIgnoreVendorIncludesAMDOnlyLeaves(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		return RegisterSet{EAX: uint32(leaf)}
	}
	m := NewLeafMap()
	EnumerateRange(exec, m, 0x8000001B, 0x8000001B, VendorIntel, PlanOptions{IgnoreVendor: true})
	_, ok := m.Get(0x8000001B, 0)
	assert.True(t, ok)
}

func TestEnumerateCPUBasicPlan(t *testing.T) {
	exec := func(leaf LeafId, sub SubleafId) RegisterSet {
		switch leaf {
		case 0:
			return RegisterSet{EAX: 1, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69}
		case 1:
			return RegisterSet{EAX: 0x000906EA}
		case LeafExtendedBase:
			return RegisterSet{EAX: uint32(LeafExtendedBase)}
		default:
			return RegisterSet{}
		}
	}
	snap := EnumerateCPU(exec, 7, PlanOptions{})
	assert.Equal(t, uint32(7), snap.APICID)
	assert.Equal(t, VendorIntel, snap.Vendor.Silicon())
	rs, ok := snap.Leaves.Get(1, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(0x000906EA), rs.EAX)
}
