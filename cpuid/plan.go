package cpuid

// ExecuteFunc issues one CPUID(leaf, subleaf) call. Production code passes
// Execute (driver_amd64.go); tests pass a fixture-backed replay function
// grounded on the teacher's offline-capture path (fixture.go).
type ExecuteFunc func(leaf LeafId, subleaf SubleafId) RegisterSet

// subleafPolicy is the enumeration convention a leaf follows, per §4.D.
type subleafPolicy int

const (
	policySingle subleafPolicy = iota
	policyTerminatedOnZero
	policyBoundedByEAX
	policyMaskBased
	policyFixedSet
)

// amdOnlyExtendedLeaves are skipped on non-AMD silicon unless the caller
// disables vendor filtering (--ignore-vendor).
var amdOnlyExtendedLeaves = map[LeafId]bool{
	0x8000001B: true,
	0x8000001D: true,
	0x8000001E: true,
	0x8000001F: true,
}

var terminatedOnZeroLeaves = map[LeafId]bool{
	0x00000004: true,
	0x0000000F: true,
	0x00000010: true,
	0x00000012: true,
	0x00000017: true,
	0x00000018: true,
	0x0000001B: true,
	0x0000001D: true,
}

var boundedByEAXLeaves = map[LeafId]bool{
	0x0000000B: true,
	0x0000001F: true,
	0x00000014: true,
}

var maskBasedLeaves = map[LeafId]bool{
	0x0000000D: true,
}

// fixedSetLeaves names leaves whose subleaf count is a small constant
// dictated by the vendor rather than anything returned by CPUID itself
// (§4.D "vendor-specific fixed set"): the Xen time leaf publishes exactly
// subleaves 0, 1, 2.
var fixedSetLeaves = map[LeafId]int{
	0x40000003: 3,
}

func policyFor(leaf LeafId) subleafPolicy {
	switch {
	case maskBasedLeaves[leaf]:
		return policyMaskBased
	case terminatedOnZeroLeaves[leaf]:
		return policyTerminatedOnZero
	case boundedByEAXLeaves[leaf]:
		return policyBoundedByEAX
	case fixedSetLeaves[leaf] > 0:
		return policyFixedSet
	default:
		return policySingle
	}
}

// PlanOptions tunes the leaf enumeration plan.
type PlanOptions struct {
	// IgnoreVendor disables the AMD-only extended-leaf skip and widens
	// brute-force bounds.
	IgnoreVendor bool
	// BruteForce probes every leaf 0..max (and subleaves 0..0xFF when
	// IgnoreVendor is also set, stopping at the first all-zero subleaf
	// after 0) instead of following the plan, to discover undocumented
	// leaves (§6, §9).
	BruteForce bool
}

// EnumerateSubleaves runs the subleaf enumeration policy for one leaf and
// records every observed RegisterSet into m.
func EnumerateSubleaves(exec ExecuteFunc, m *LeafMap, leaf LeafId, opts PlanOptions) {
	if opts.BruteForce {
		enumerateBruteForce(exec, m, leaf, opts)
		return
	}

	switch policyFor(leaf) {
	case policyMaskBased:
		enumerateMaskBased(exec, m, leaf)
	case policyTerminatedOnZero:
		enumerateTerminatedOnZero(exec, m, leaf)
	case policyBoundedByEAX:
		enumerateBoundedByEAX(exec, m, leaf)
	case policyFixedSet:
		n := fixedSetLeaves[leaf]
		for i := 0; i < n; i++ {
			m.Set(leaf, SubleafId(i), exec(leaf, SubleafId(i)))
		}
	default:
		m.Set(leaf, 0, exec(leaf, 0))
	}
}

func enumerateTerminatedOnZero(exec ExecuteFunc, m *LeafMap, leaf LeafId) {
	for sub := SubleafId(0); ; sub++ {
		rs := exec(leaf, sub)
		if sub > 0 && rs.EAX == 0 {
			break
		}
		m.Set(leaf, sub, rs)
		if sub > 10000 {
			break // guards against a misbehaving/offline exec never returning zero
		}
	}
}

func enumerateBoundedByEAX(exec ExecuteFunc, m *LeafMap, leaf LeafId) {
	first := exec(leaf, 0)
	m.Set(leaf, 0, first)
	count := first.EAX
	for sub := SubleafId(1); uint32(sub) < count; sub++ {
		m.Set(leaf, sub, exec(leaf, sub))
	}
}

func enumerateMaskBased(exec ExecuteFunc, m *LeafMap, leaf LeafId) {
	first := exec(leaf, 0)
	m.Set(leaf, 0, first)
	mask := first.EAX
	for bit := 0; bit < 32; bit++ {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		sub := SubleafId(bit + 1)
		m.Set(leaf, sub, exec(leaf, sub))
	}
}

func enumerateBruteForce(exec ExecuteFunc, m *LeafMap, leaf LeafId, opts PlanOptions) {
	max := uint32(0)
	if opts.IgnoreVendor {
		max = 0xFF
	}
	for sub := SubleafId(0); uint32(sub) <= max; sub++ {
		rs := exec(leaf, sub)
		if sub > 0 && rs == (RegisterSet{}) {
			break
		}
		m.Set(leaf, sub, rs)
	}
}

// EnumerateRange drives the three-phase plan of §4.D over one range
// [start, max] for a single logical CPU, honoring the AMD-only extended
// leaf skip unless opts.IgnoreVendor is set.
func EnumerateRange(exec ExecuteFunc, m *LeafMap, start, max LeafId, vendor Vendor, opts PlanOptions) {
	for leaf := start; leaf <= max; leaf++ {
		if !opts.IgnoreVendor && amdOnlyExtendedLeaves[leaf] && vendor.Silicon() != VendorAMD {
			continue
		}
		EnumerateSubleaves(exec, m, leaf, opts)
	}
}

// EnumerateCPU runs the full three-phase plan (basic, hypervisor iff
// present, extended) for the logical CPU the caller has already pinned,
// and returns the populated CpuSnapshot. exec must be pinned-CPU-scoped by
// the caller; EnumerateCPU does no affinity work itself (component A is a
// separate concern per §2).
func EnumerateCPU(exec ExecuteFunc, apicID uint32, opts PlanOptions) CpuSnapshot {
	m := NewLeafMap()

	basic0 := exec(0, 0)
	m.Set(0, 0, basic0)
	maxBasic := LeafId(basic0.EAX)
	vendor := VendorFrom(basic0)

	if maxBasic > 0 {
		EnumerateRange(exec, m, 1, maxBasic, vendor, opts)
	}

	hvPresent := false
	if leaf1, ok := m.Get(1, 0); ok {
		hvPresent = leaf1.ECX&(1<<31) != 0
	}
	if hvPresent {
		hvBase := exec(LeafHypervisorBase, 0)
		m.Set(LeafHypervisorBase, 0, hvBase)
		maxHV := LeafId(hvBase.EAX)
		if maxHV > LeafHypervisorBase {
			EnumerateRange(exec, m, LeafHypervisorBase+1, maxHV, vendor, opts)
		}

		var xenOffsetRS *RegisterSet
		sig := vendorSignature(hvBase.EBX, hvBase.EDX, hvBase.ECX)
		if hypervisorStrings[sig] == VendorHyperV {
			off := exec(LeafXenHypervisorOffset, 0)
			xenOffsetRS = &off
			if off != (RegisterSet{}) {
				m.Set(LeafXenHypervisorOffset, 0, off)
				maxXen := LeafId(off.EAX)
				if maxXen > LeafXenHypervisorOffset {
					EnumerateRange(exec, m, LeafXenHypervisorOffset+1, maxXen, vendor, opts)
				}
			}
		}
		vendor |= HypervisorFrom(hvBase, xenOffsetRS)
	}

	ext0 := exec(LeafExtendedBase, 0)
	m.Set(LeafExtendedBase, 0, ext0)
	maxExt := LeafId(ext0.EAX)
	if maxExt > LeafExtendedBase {
		EnumerateRange(exec, m, LeafExtendedBase+1, maxExt, vendor, opts)
	}

	var model ModelId
	if leaf1, ok := m.Get(1, 0); ok {
		model = ModelFrom(leaf1.EAX)
	}

	return CpuSnapshot{
		APICID: apicID,
		Vendor: vendor,
		Model:  model,
		Leaves: m,
	}
}

// CpuSnapshot is one logical processor's complete, immutable CPUID
// inventory (§3). Construct with EnumerateCPU; never mutate Leaves after
// enumeration completes.
type CpuSnapshot struct {
	APICID uint32
	Vendor Vendor
	Model  ModelId
	Leaves *LeafMap
}
