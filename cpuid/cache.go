package cpuid

// CacheType classifies one cache level entry.
type CacheType int

const (
	CacheData CacheType = iota + 1
	CacheInstruction
	CacheUnified
)

func (t CacheType) String() string {
	switch t {
	case CacheData:
		return "data"
	case CacheInstruction:
		return "instruction"
	case CacheUnified:
		return "unified"
	default:
		return "unknown"
	}
}

// CacheFlags are the boolean attributes Intel's deterministic-cache leaf
// (4) and AMD's cache-properties leaf (0x8000001D) both expose.
type CacheFlags struct {
	FullyAssociative      bool
	DirectMapped          bool
	ComplexAddressed      bool
	SelfInitializing      bool
	InvalidatesLowerLevels bool
	Inclusive             bool
}

// Cache is one cache level/type entry. BuildTopology orders
// Topology.AllCaches by (Level, Type, TotalSize) per §3, then by APIC-id
// prefix.
type Cache struct {
	Level       uint32
	Type        CacheType
	Ways        uint32
	Sets        uint32
	LineSize    uint32
	LinePartitions uint32
	TotalSize   uint64
	Flags       CacheFlags
	// SharingMask is the number of APIC IDs sharing this cache, derived
	// from leaf 4 EAX[25:14]+1 or AMD's 0x8000001D EAX[25:14]+1. Two
	// logical CPUs share this cache iff apic_i >> log2(SharingMask)
	// equals apic_j >> log2(SharingMask) (§4.G).
	SharingMask uint32
}

// cacheFromDeterministicLeaf decodes one subleaf of Intel leaf 4 or AMD
// leaf 0x8000001D, which share an identical register layout (§4.G).
func cacheFromDeterministicLeaf(rs RegisterSet) (Cache, bool) {
	cacheType := rs.EAX & 0x1F
	if cacheType == 0 {
		return Cache{}, false
	}

	level := (rs.EAX >> 5) & 0x7
	selfInit := (rs.EAX>>8)&1 != 0
	fullyAssoc := (rs.EAX>>9)&1 != 0
	sharingMask := ((rs.EAX >> 14) & 0xFFF) + 1
	lineSize := (rs.EBX & 0xFFF) + 1
	partitions := ((rs.EBX >> 12) & 0x3FF) + 1
	ways := ((rs.EBX >> 22) & 0x3FF) + 1
	sets := rs.ECX + 1
	complexAddr := rs.EDX&1 != 0
	invalidatesLower := (rs.EDX>>1)&1 != 0
	inclusive := (rs.EDX>>2)&1 != 0

	var typ CacheType
	switch cacheType {
	case 1:
		typ = CacheData
	case 2:
		typ = CacheInstruction
	case 3:
		typ = CacheUnified
	default:
		return Cache{}, false
	}

	return Cache{
		Level:          level,
		Type:           typ,
		Ways:           ways,
		Sets:           sets,
		LineSize:       lineSize,
		LinePartitions: partitions,
		TotalSize:      uint64(lineSize) * uint64(partitions) * uint64(ways) * uint64(sets),
		Flags: CacheFlags{
			FullyAssociative:       fullyAssoc,
			DirectMapped:           ways == 1,
			ComplexAddressed:       complexAddr,
			SelfInitializing:       selfInit,
			InvalidatesLowerLevels: invalidatesLower,
			Inclusive:              inclusive,
		},
		SharingMask: sharingMask,
	}, true
}

// CachesFromSnapshot walks leaf 4 (Intel) or extended leaf 0x8000001D
// (AMD) subleaves and returns every cache described, terminated by a
// subleaf whose cache type is zero, per the "terminated on zero eax"
// policy already applied during enumeration (§4.D).
func CachesFromSnapshot(s CpuSnapshot) []Cache {
	leaf := LeafId(4)
	if s.Vendor.Silicon() == VendorAMD {
		leaf = 0x8000001D
	}

	var out []Cache
	for _, sub := range s.Leaves.Subleaves(leaf) {
		rs, ok := s.Leaves.Get(leaf, sub)
		if !ok {
			continue
		}
		if c, valid := cacheFromDeterministicLeaf(rs); valid {
			out = append(out, c)
		}
	}
	return out
}
