package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFromDeterministicLeafL1Data(t *testing.T) {
	// Type=1 (data), level=1, fully associative off, 8-way, 64 sets,
	// line size 64, 1 partition, shared by 2 APIC ids.
	eax := uint32(1) | (1 << 5) | (1 << 8) | (1 << 14)
	ebx := uint32(63) | (0 << 12) | (7 << 22)
	ecx := uint32(63)
	c, ok := cacheFromDeterministicLeaf(RegisterSet{EAX: eax, EBX: ebx, ECX: ecx})
	require.True(t, ok)
	assert.Equal(t, uint32(1), c.Level)
	assert.Equal(t, CacheData, c.Type)
	assert.Equal(t, uint32(8), c.Ways)
	assert.Equal(t, uint32(64), c.Sets)
	assert.Equal(t, uint32(64), c.LineSize)
	assert.Equal(t, uint32(1), c.LinePartitions)
	assert.Equal(t, uint32(2), c.SharingMask)
	assert.Equal(t, uint64(64*1*8*64), c.TotalSize)
	assert.True(t, c.Flags.SelfInitializing)
}

func TestCacheFromDeterministicLeafTerminator(t *testing.T) {
	_, ok := cacheFromDeterministicLeaf(RegisterSet{})
	assert.False(t, ok)
}

func TestCachesFromSnapshotWalksTerminatedLeaf(t *testing.T) {
	m := NewLeafMap()
	m.Set(0, 0, RegisterSet{EAX: 0x16, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69})
	l1 := RegisterSet{EAX: uint32(1) | (1 << 5) | (1 << 14), EBX: 63, ECX: 63}
	l2 := RegisterSet{EAX: uint32(3) | (2 << 5) | (1 << 14), EBX: 63, ECX: 511}
	m.Set(4, 0, l1)
	m.Set(4, 1, l2)
	s := snapshotFromLeaves(0, m)

	caches := CachesFromSnapshot(s)
	require.Len(t, caches, 2)
	assert.Equal(t, uint32(1), caches[0].Level)
	assert.Equal(t, uint32(2), caches[1].Level)
	assert.Equal(t, CacheUnified, caches[1].Type)
}
