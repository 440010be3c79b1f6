package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fallbackSnapshot builds a snapshot using only leaf 1's initial APIC id
// and 0x80000008's core count, exercising BuildTopology's non-0x0B/0x1F
// fallback path (§4.G).
func fallbackSnapshot(initialAPIC uint32, coresPerPackageMinusOne uint32) CpuSnapshot {
	m := NewLeafMap()
	m.Set(0, 0, RegisterSet{EAX: 0x16, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69})
	m.Set(1, 0, RegisterSet{EAX: 0x000906EA, EBX: initialAPIC << 24})
	m.Set(0x80000000, 0, RegisterSet{EAX: 0x80000008})
	m.Set(0x80000008, 0, RegisterSet{ECX: coresPerPackageMinusOne})
	return snapshotFromLeaves(initialAPIC, m)
}

func TestBuildTopologyFallbackTwoCoresOnePackage(t *testing.T) {
	snapshots := []CpuSnapshot{
		fallbackSnapshot(0, 1),
		fallbackSnapshot(1, 1),
	}
	topo := BuildTopology(snapshots)

	require.Len(t, topo.AllCores, 2)
	assert.Equal(t, uint32(0), topo.AllCores[0].PackageID)
	assert.Equal(t, uint32(0), topo.AllCores[1].PackageID)

	totalLogical := 0
	for _, coresByLogical := range topo.Packages {
		for _, logical := range coresByLogical {
			totalLogical += len(logical)
		}
	}
	assert.Equal(t, len(snapshots), totalLogical)
}

func TestBuildTopologyExtendedLeaf0x0B(t *testing.T) {
	// SMT shift 1, core shift 4: bit 0 is thread, bits 1-3 are core,
	// bit 4+ is package. APIC ids 0 and 2 are two distinct cores (thread
	// 0) in the same package.
	mk := func(apic uint32) CpuSnapshot {
		m := NewLeafMap()
		m.Set(0, 0, RegisterSet{EAX: 0x16, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69})
		m.Set(1, 0, RegisterSet{EAX: 0x000906EA})
		m.Set(0x0B, 0, RegisterSet{EAX: 1, ECX: (1 << 8), EDX: apic})
		m.Set(0x0B, 1, RegisterSet{EAX: 4, ECX: (2 << 8), EDX: apic})
		return snapshotFromLeaves(apic, m)
	}
	topo := BuildTopology([]CpuSnapshot{mk(0), mk(2)})
	require.Len(t, topo.AllCores, 2)
	assert.Equal(t, topo.AllCores[0].PackageID, topo.AllCores[1].PackageID)
	assert.NotEqual(t, topo.AllCores[0].PhysicalCoreID, topo.AllCores[1].PhysicalCoreID)
}
