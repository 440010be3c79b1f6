package cpuid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() CpuSnapshot {
	m := NewLeafMap()
	m.Set(0, 0, RegisterSet{EAX: 0x16, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69})
	m.Set(1, 0, RegisterSet{EAX: 0x000906EA, EBX: 0x01, ECX: 0x7ffafbff, EDX: 0xbfebfbff})
	m.Set(7, 0, RegisterSet{EAX: 0, EBX: 0x029c6fbf, ECX: 0x40000000, EDX: 0xbc000400})
	return snapshotFromLeaves(0, m)
}

func TestNativeDumpRoundTrip(t *testing.T) {
	want := []CpuSnapshot{sampleSnapshot()}

	var buf bytes.Buffer
	require.NoError(t, WriteNative(&buf, want))

	got, err := ReadNative(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want[0].APICID, got[0].APICID)
	assert.Equal(t, want[0].Vendor, got[0].Vendor)
	assert.Equal(t, want[0].Model, got[0].Model)
	assert.Equal(t, want[0].Leaves.Leaves(), got[0].Leaves.Leaves())
	for _, leaf := range want[0].Leaves.Leaves() {
		for _, sub := range want[0].Leaves.Subleaves(leaf) {
			wrs, _ := want[0].Leaves.Get(leaf, sub)
			grs, _ := got[0].Leaves.Get(leaf, sub)
			assert.Equal(t, wrs, grs, "leaf 0x%x sub %d", leaf, sub)
		}
	}
}

func TestReadNativeRejectsMalformedLine(t *testing.T) {
	_, err := ReadNative(bytes.NewBufferString("CPU 0:\n   this is not a leaf line\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadEtallenBasic(t *testing.T) {
	input := "CPU 0:\n" +
		"   0x00000000 0x00000000: eax=0x00000016 ebx=0x756e6547 ecx=0x6c65746e edx=0x49656e69\n"
	snaps, err := ReadEtallen(bytes.NewBufferString(input))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	rs, ok := snaps[0].Leaves.Get(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(0x16), rs.EAX)
}

func TestReadLibcpuidBasic(t *testing.T) {
	input := "version=0.6.0\n" +
		"basic_cpuid[0]=0x00000016 0x756e6547 0x6c65746e 0x49656e69\n" +
		"ext_cpuid[0]=0x80000008 0x00000000 0x00000000 0x00000000\n"
	snaps, err := ReadLibcpuid(bytes.NewBufferString(input))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	rs, ok := snaps[0].Leaves.Get(0, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(0x16), rs.EAX)
	_, ok = snaps[0].Leaves.Get(LeafExtendedBase, 0)
	assert.True(t, ok)
}

func TestReadInstlatBasic(t *testing.T) {
	input := "Logical CPU 0\n" +
		"CPUID 00000000: 00000016-756E6547-6C65746E-49656E69\n" +
		"CPUID 0000000B [SL 01]: 00000001-00000101-00000100-00000004\n"
	snaps, err := ReadInstlat(bytes.NewBufferString(input))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	rs, ok := snaps[0].Leaves.Get(0x0B, 1)
	require.True(t, ok)
	assert.Equal(t, uint32(0x101), rs.EBX)
}
