package cpuid

import "fmt"

// RenderSnapshot renders every leaf/subleaf/register of s through the
// catalogue, one mnemonic per line with bit index and description,
// bitfields rendered as decimal values (§4.E).
func RenderSnapshot(cat *Catalogue, s CpuSnapshot, ignoreVendor, ignoreFeature bool) []string {
	var lines []string
	lines = append(lines, fmt.Sprintf("CPU %d: vendor=%s%s model=%d family=%d stepping=%d",
		s.APICID, s.Vendor.Name(), hypervisorSuffix(s.Vendor), s.Model.Model, s.Model.Family, s.Model.Stepping))

	for _, leaf := range s.Leaves.Leaves() {
		for _, sub := range s.Leaves.Subleaves(leaf) {
			rs, _ := s.Leaves.Get(leaf, sub)
			for _, reg := range []Reg{RegEAX, RegEBX, RegECX, RegEDX} {
				val := rs.Value(reg)
				for _, rf := range cat.Render(leaf, sub, reg, val, s.Vendor, ignoreVendor, ignoreFeature) {
					lines = append(lines, formatFeatureLine(leaf, sub, reg, rf))
				}
			}
		}
	}
	return lines
}

func formatFeatureLine(leaf LeafId, sub SubleafId, reg Reg, rf RenderedFeature) string {
	if rf.BitLo == rf.BitHi {
		return fmt.Sprintf("  leaf 0x%x.%d %s bit %d: %-16s %s", uint32(leaf), uint32(sub), reg, rf.BitLo, rf.Mnemonic, rf.Description)
	}
	return fmt.Sprintf("  leaf 0x%x.%d %s bits %d:%d: %-16s = %d  %s", uint32(leaf), uint32(sub), reg, rf.BitHi, rf.BitLo, rf.Mnemonic, rf.Value, rf.Description)
}

func hypervisorSuffix(v Vendor) string {
	if name := v.HypervisorName(); name != "" {
		return " (hypervisor: " + name + ")"
	}
	return ""
}

// RenderTopology renders the package/core/thread table for t, one line
// per logical core (§6 --topology).
func RenderTopology(t Topology) []string {
	lines := []string{fmt.Sprintf("logical mask width=%d physical mask width=%d caches=%d cores=%d",
		t.LogicalMaskWidth, t.PhysicalMaskWidth, len(t.AllCaches), len(t.AllCores))}
	for _, lc := range t.AllCores {
		lines = append(lines, fmt.Sprintf("  apic=%-4d package=%-2d core=%-2d shared-caches=%v non-shared-caches=%v",
			lc.FullAPICID, lc.PackageID, lc.PhysicalCoreID, lc.SharedCacheIDs, lc.NonSharedCacheIDs))
	}
	return lines
}

// QueryFlag evaluates a FlagSpec against one snapshot, resolving the bit
// position via the catalogue when spec.Name is set but BitLo/BitHi are
// still the whole-register sentinel (the bracketed-bare-mnemonic form of
// §4.H, e.g. "ECX[SSE4.2]").
func QueryFlag(cat *Catalogue, s CpuSnapshot, spec FlagSpec, ignoreFeature bool) (uint32, error) {
	resolved := spec
	if spec.BitLo == WholeRegisterSentinel && spec.Name != "" {
		f, _, ok := cat.FindByMnemonic(spec.Name)
		if !ok && !ignoreFeature {
			return 0, ErrCatalogueMiss
		}
		if ok {
			resolved.BitLo, resolved.BitHi = uint32(f.Lo), uint32(f.Hi)
		}
	}

	rs, ok := s.Leaves.Get(LeafId(spec.SelectorEAX), SubleafId(spec.SelectorECX))
	if !ok {
		return 0, nil
	}
	val := rs.Value(spec.Register)
	if resolved.BitLo == WholeRegisterSentinel {
		return val, nil
	}
	f := Feature{Lo: uint8(resolved.BitLo), Hi: uint8(resolved.BitHi)}
	return f.Extract(val), nil
}
