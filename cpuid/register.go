// Package cpuid enumerates x86 CPUID leaves per logical processor and
// decodes them into a typed vendor, model, feature, cache, and topology
// model.
package cpuid

import "sort"

// LeafId is the CPUID `eax` selector. Leaves partition into basic
// (0x0000xxxx), hypervisor (0x4000xxxx), and extended (0x8000xxxx) ranges.
type LeafId uint32

// SubleafId is the CPUID `ecx` selector within a leaf.
type SubleafId uint32

const (
	// LeafBasicMax reports the highest supported basic leaf.
	LeafBasicMax LeafId = 0x00000000
	// LeafHypervisorBase is the first leaf of the hypervisor range.
	LeafHypervisorBase LeafId = 0x40000000
	// LeafExtendedBase is the first leaf of the extended range.
	LeafExtendedBase LeafId = 0x80000000
	// LeafXenHypervisorOffset is the subrange Xen publishes at when a
	// Hyper-V stub already occupies LeafHypervisorBase.
	LeafXenHypervisorOffset LeafId = 0x40000100
)

// RegisterSet holds the four 32-bit registers returned by one CPUID call.
type RegisterSet struct {
	EAX, EBX, ECX, EDX uint32
}

// Reg selects one of the four registers in a RegisterSet.
type Reg int

// Register selectors, matching the textual grammar of §4.H.
const (
	RegEAX Reg = iota
	RegEBX
	RegECX
	RegEDX
)

func (r Reg) String() string {
	switch r {
	case RegEAX:
		return "EAX"
	case RegEBX:
		return "EBX"
	case RegECX:
		return "ECX"
	case RegEDX:
		return "EDX"
	default:
		return "?"
	}
}

// Value returns the register named by r out of rs.
func (rs RegisterSet) Value(r Reg) uint32 {
	switch r {
	case RegEAX:
		return rs.EAX
	case RegEBX:
		return rs.EBX
	case RegECX:
		return rs.ECX
	case RegEDX:
		return rs.EDX
	default:
		return 0
	}
}

// subleafMap is an ordered map of SubleafId to RegisterSet. Go maps don't
// preserve iteration order, so LeafMap keeps an explicit key slice
// alongside the map to satisfy the stable dump-ordering invariant (§3).
type subleafMap struct {
	order map[SubleafId]int
	keys  []SubleafId
	regs  map[SubleafId]RegisterSet
}

func newSubleafMap() *subleafMap {
	return &subleafMap{
		order: make(map[SubleafId]int),
		regs:  make(map[SubleafId]RegisterSet),
	}
}

func (m *subleafMap) set(sub SubleafId, rs RegisterSet) {
	if _, ok := m.order[sub]; !ok {
		m.order[sub] = len(m.keys)
		m.keys = append(m.keys, sub)
	}
	m.regs[sub] = rs
}

func (m *subleafMap) get(sub SubleafId) (RegisterSet, bool) {
	rs, ok := m.regs[sub]
	return rs, ok
}

// LeafMap maps LeafId to an ordered set of (SubleafId -> RegisterSet)
// pairs. Iteration via Leaves/Subleaves is stable: leaf ascending, then
// subleaf ascending, regardless of insertion order, as required by the
// native dump format.
type LeafMap struct {
	order map[LeafId]int
	keys  []LeafId
	leafs map[LeafId]*subleafMap
}

// NewLeafMap returns an empty LeafMap ready for population.
func NewLeafMap() *LeafMap {
	return &LeafMap{
		order: make(map[LeafId]int),
		leafs: make(map[LeafId]*subleafMap),
	}
}

// Set records the RegisterSet observed for (leaf, subleaf).
func (m *LeafMap) Set(leaf LeafId, subleaf SubleafId, rs RegisterSet) {
	sm, ok := m.leafs[leaf]
	if !ok {
		sm = newSubleafMap()
		m.order[leaf] = len(m.keys)
		m.keys = append(m.keys, leaf)
		m.leafs[leaf] = sm
	}
	sm.set(subleaf, rs)
}

// Get returns the RegisterSet recorded for (leaf, subleaf), if any.
func (m *LeafMap) Get(leaf LeafId, subleaf SubleafId) (RegisterSet, bool) {
	sm, ok := m.leafs[leaf]
	if !ok {
		return RegisterSet{}, false
	}
	return sm.get(subleaf)
}

// Leaves returns every LeafId present, ordered ascending.
func (m *LeafMap) Leaves() []LeafId {
	out := append([]LeafId(nil), m.keys...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subleaves returns every SubleafId present under leaf, ordered ascending.
func (m *LeafMap) Subleaves(leaf LeafId) []SubleafId {
	sm, ok := m.leafs[leaf]
	if !ok {
		return nil
	}
	out := append([]SubleafId(nil), sm.keys...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of distinct leaves present.
func (m *LeafMap) Len() int {
	return len(m.keys)
}
