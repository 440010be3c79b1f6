package cpuid

import "sort"

// TopologyLevelType classifies one level of leaf 0x0B/0x1F's extended
// topology enumeration.
type TopologyLevelType uint32

const (
	LevelInvalid TopologyLevelType = 0
	LevelSMT     TopologyLevelType = 1
	LevelCore    TopologyLevelType = 2
	LevelModule  TopologyLevelType = 3
	LevelTile    TopologyLevelType = 4
	LevelDie     TopologyLevelType = 5
	LevelPackage TopologyLevelType = 6
)

// LogicalCore is one logical processor's place in the package→core→thread
// hierarchy plus its cache-sharing relationships (§3). Cache ↔ logical-core
// sharing is many-to-many, modeled as index lists into Topology.AllCaches
// rather than pointers (§9).
type LogicalCore struct {
	FullAPICID        uint32
	PackageID         uint32
	PhysicalCoreID    uint32
	LogicalCoreID     uint32
	NonSharedCacheIDs []int
	SharedCacheIDs    []int
}

// Topology is the reconstructed package→core→thread hierarchy plus the
// deduplicated cache set for a whole machine (§3). Packages form a strict
// tree (package → physical core → logical core); there are no
// back-pointers (§9).
type Topology struct {
	LogicalMaskWidth  uint32
	PhysicalMaskWidth uint32
	APICIDs           []uint32
	AllCaches         []Cache
	AllCores          []LogicalCore
	// Packages maps package ID to physical-core ID to logical-core ID to
	// an index into AllCores.
	Packages map[uint32]map[uint32]map[uint32]int
}

type topoLevel struct {
	shift uint32
	typ   TopologyLevelType
}

func extendedTopologyLevels(s CpuSnapshot, leaf LeafId) []topoLevel {
	var levels []topoLevel
	for _, sub := range s.Leaves.Subleaves(leaf) {
		rs, ok := s.Leaves.Get(leaf, sub)
		if !ok {
			continue
		}
		typ := TopologyLevelType((rs.ECX >> 8) & 0xFF)
		if typ == LevelInvalid {
			break
		}
		levels = append(levels, topoLevel{shift: rs.EAX & 0x1F, typ: typ})
	}
	return levels
}

// apicBreakdown derives (thread, core, package) IDs for one snapshot from
// its extended-topology levels, or from the leaf-1/leaf-0x80000008
// fallback when neither 0x1F nor 0x0B is present (§4.G).
func apicBreakdown(s CpuSnapshot) (fullAPIC, threadID, coreID, packageID uint32, logicalWidth, physicalWidth uint32) {
	leaf := LeafId(0x1F)
	levels := extendedTopologyLevels(s, leaf)
	if levels == nil {
		leaf = 0x0B
		levels = extendedTopologyLevels(s, leaf)
	}

	if levels != nil {
		smtShift := uint32(0)
		coreShift := uint32(0)
		packageShift := uint32(0)
		for _, lvl := range levels {
			switch lvl.typ {
			case LevelSMT:
				smtShift = lvl.shift
			case LevelCore:
				coreShift = lvl.shift
			}
			if lvl.shift > packageShift {
				packageShift = lvl.shift
			}
		}
		if coreShift < smtShift {
			coreShift = smtShift
		}

		// EDX of the last enumerated subleaf carries this logical
		// processor's full x2APIC ID.
		last, _ := s.Leaves.Get(leaf, SubleafId(len(levels)-1))
		full := last.EDX

		thread := full & mask(smtShift)
		core := (full >> smtShift) & mask(coreShift-smtShift)
		pkg := full >> packageShift
		return full, thread, core, pkg, smtShift, coreShift
	}

	// Fallback: leaf 1's initial APIC ID plus 0x80000008.ecx[7:0]+1 as
	// the package size.
	var initialAPIC uint32
	if leaf1, ok := s.Leaves.Get(1, 0); ok {
		initialAPIC = (leaf1.EBX >> 24) & 0xFF
	}
	packageSize := uint32(1)
	if ext8, ok := s.Leaves.Get(0x80000008, 0); ok {
		packageSize = (ext8.ECX & 0xFF) + 1
	}
	width := bitWidth(packageSize)
	thread := initialAPIC & mask(width)
	pkg := initialAPIC >> width
	return initialAPIC, thread, thread, pkg, width, width
}

func mask(width uint32) uint32 {
	if width == 0 {
		return 0
	}
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << width) - 1
}

func bitWidth(n uint32) uint32 {
	w := uint32(0)
	for (uint32(1) << w) < n {
		w++
	}
	return w
}

// BuildTopology reconstructs the package→core→thread hierarchy and shared
// cache sets from a machine's snapshots (§4.G).
func BuildTopology(snapshots []CpuSnapshot) Topology {
	t := Topology{Packages: make(map[uint32]map[uint32]map[uint32]int)}

	type cacheOwner struct {
		cache     Cache
		snapIndex int
		apic      uint32
	}
	var allCacheOwners []cacheOwner

	for i, s := range snapshots {
		full, _, core, pkg, logicalW, physicalW := apicBreakdown(s)
		if logicalW > t.LogicalMaskWidth {
			t.LogicalMaskWidth = logicalW
		}
		if physicalW > t.PhysicalMaskWidth {
			t.PhysicalMaskWidth = physicalW
		}
		t.APICIDs = append(t.APICIDs, full)

		lc := LogicalCore{
			FullAPICID:     full,
			PackageID:      pkg,
			PhysicalCoreID: core,
			LogicalCoreID:  full,
		}
		idx := len(t.AllCores)
		t.AllCores = append(t.AllCores, lc)

		if t.Packages[pkg] == nil {
			t.Packages[pkg] = make(map[uint32]map[uint32]int)
		}
		if t.Packages[pkg][core] == nil {
			t.Packages[pkg][core] = make(map[uint32]int)
		}
		t.Packages[pkg][core][full] = idx

		for _, c := range CachesFromSnapshot(s) {
			allCacheOwners = append(allCacheOwners, cacheOwner{cache: c, snapIndex: i, apic: full})
		}
	}

	// De-duplicate caches by shared APIC-id prefix: two owners share a
	// cache iff apic_i >> log2(sharingMask) == apic_j >> log2(sharingMask)
	// for caches at the same (level, type). Group, then assign one
	// Cache entry per group and record membership on each LogicalCore.
	type groupKey struct {
		level  uint32
		typ    CacheType
		prefix uint32
	}
	groups := make(map[groupKey][]int) // group key -> owner indices
	ownerCoreIdx := make([]int, len(allCacheOwners))
	for i, owner := range allCacheOwners {
		shift := bitWidth(owner.cache.SharingMask)
		key := groupKey{level: owner.cache.Level, typ: owner.cache.Type, prefix: owner.apic >> shift}
		groups[key] = append(groups[key], i)
		ownerCoreIdx[i] = owner.snapIndex
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].level != keys[j].level {
			return keys[i].level < keys[j].level
		}
		if keys[i].typ != keys[j].typ {
			return keys[i].typ < keys[j].typ
		}
		si := allCacheOwners[groups[keys[i]][0]].cache.TotalSize
		sj := allCacheOwners[groups[keys[j]][0]].cache.TotalSize
		if si != sj {
			return si < sj
		}
		return keys[i].prefix < keys[j].prefix
	})

	for _, k := range keys {
		owners := groups[k]
		cacheIdx := len(t.AllCaches)
		t.AllCaches = append(t.AllCaches, allCacheOwners[owners[0]].cache)
		shared := len(owners) > 1
		for _, oi := range owners {
			coreIdx := ownerCoreIdx[oi]
			lc := &t.AllCores[coreIdx]
			if shared {
				lc.SharedCacheIDs = append(lc.SharedCacheIDs, cacheIdx)
			} else {
				lc.NonSharedCacheIDs = append(lc.NonSharedCacheIDs, cacheIdx)
			}
		}
	}

	return t
}
