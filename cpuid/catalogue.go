package cpuid

import "sort"

// FeatureKind tags whether a Feature describes a single flag bit or a
// multi-bit field (§9 "dynamic dispatch over feature kinds").
type FeatureKind int

const (
	// KindBit is a single flag bit, rendered as 0/1.
	KindBit FeatureKind = iota
	// KindField is a multi-bit field, rendered as its decimal value.
	KindField
)

// Feature describes one named bit or bitfield at a fixed (leaf, subleaf,
// register, bit_range) location, scoped to the silicon/hypervisor vendors
// that define it.
type Feature struct {
	VendorMask  Vendor
	Lo, Hi      uint8
	Mnemonic    string
	Description string
}

// Kind reports whether this Feature is a single bit or a bitfield.
func (f Feature) Kind() FeatureKind {
	if f.Lo == f.Hi {
		return KindBit
	}
	return KindField
}

// Extract pulls this feature's value out of a register value.
func (f Feature) Extract(regValue uint32) uint32 {
	width := uint(f.Hi-f.Lo) + 1
	mask := uint32(1)
	if width < 32 {
		mask = (uint32(1) << width) - 1
	} else {
		mask = 0xFFFFFFFF
	}
	return (regValue >> f.Lo) & mask
}

// CatalogueKey identifies one (leaf, subleaf, register) triple that the
// catalogue has features for.
type CatalogueKey struct {
	Leaf    LeafId
	Subleaf SubleafId
	Reg     Reg
}

// Catalogue is the static, process-wide feature/field table (§4.E),
// constructed once at init (§9 "global mutable state" — here immutable,
// so no synchronization is needed at all).
type Catalogue struct {
	entries map[CatalogueKey][]Feature
}

// NewCatalogue builds the compiled-in feature catalogue.
func NewCatalogue() *Catalogue {
	c := &Catalogue{entries: make(map[CatalogueKey][]Feature)}
	for _, f := range catalogueData {
		key := CatalogueKey{Leaf: f.leaf, Subleaf: f.subleaf, Reg: f.reg}
		c.entries[key] = append(c.entries[key], f.Feature)
	}
	return c
}

// Lookup returns the features declared at (leaf, subleaf, reg).
func (c *Catalogue) Lookup(leaf LeafId, subleaf SubleafId, reg Reg) []Feature {
	return c.entries[CatalogueKey{Leaf: leaf, Subleaf: subleaf, Reg: reg}]
}

// FindByMnemonic returns the first feature whose mnemonic matches name
// (case handled by the caller), or false when strict mode should raise
// ErrCatalogueMiss.
func (c *Catalogue) FindByMnemonic(name string) (Feature, CatalogueKey, bool) {
	// Deterministic order: sort keys so a duplicate mnemonic (there are
	// none in the compiled-in table, but a user catalogue extension
	// could introduce one) resolves the same way every run.
	keys := make([]CatalogueKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Leaf != keys[j].Leaf {
			return keys[i].Leaf < keys[j].Leaf
		}
		if keys[i].Subleaf != keys[j].Subleaf {
			return keys[i].Subleaf < keys[j].Subleaf
		}
		return keys[i].Reg < keys[j].Reg
	})
	for _, k := range keys {
		for _, f := range c.entries[k] {
			if f.Mnemonic == name {
				return f, k, true
			}
		}
	}
	return Feature{}, CatalogueKey{}, false
}

// RenderedFeature is one line of catalogue-driven text output.
type RenderedFeature struct {
	Mnemonic    string
	BitLo, BitHi uint8
	Value       uint32
	Description string
}

// Render returns every feature at (leaf, subleaf, reg) whose vendor_mask
// intersects vendor and whose bits are set (KindBit) or present
// (KindField, always emitted since a zero field is still information),
// unless ignoreVendor or ignoreFeature relax the respective gate (§6).
func (c *Catalogue) Render(leaf LeafId, subleaf SubleafId, reg Reg, regValue uint32, vendor Vendor, ignoreVendor, ignoreFeature bool) []RenderedFeature {
	var out []RenderedFeature
	for _, f := range c.Lookup(leaf, subleaf, reg) {
		if !ignoreVendor && !vendor.Intersects(f.VendorMask) {
			continue
		}
		val := f.Extract(regValue)
		switch f.Kind() {
		case KindBit:
			if val == 0 && !ignoreFeature {
				continue
			}
		case KindField:
			// bitfields are always printed, per §4.E.
		}
		out = append(out, RenderedFeature{
			Mnemonic:    f.Mnemonic,
			BitLo:       f.Lo,
			BitHi:       f.Hi,
			Value:       val,
			Description: f.Description,
		})
	}
	return out
}
