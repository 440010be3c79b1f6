package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// leaf0From builds a synthetic basic-leaf-0 RegisterSet whose
// (ebx, edx, ecx) concatenation spells sig.
func leaf0From(sig string) RegisterSet {
	b := []byte(sig)
	le := func(lo int) uint32 {
		return uint32(b[lo]) | uint32(b[lo+1])<<8 | uint32(b[lo+2])<<16 | uint32(b[lo+3])<<24
	}
	return RegisterSet{EBX: le(0), EDX: le(4), ECX: le(8)}
}

func TestVendorFromSiliconTable(t *testing.T) {
	cases := map[string]Vendor{
		"GenuineIntel": VendorIntel,
		"AuthenticAMD": VendorAMD,
		"CentaurHauls": VendorCentaur,
		"CyrixInstead": VendorCyrix,
		"TransmetaCPU": VendorTransmeta,
		"GenuineTMx86": VendorTransmeta,
		"Geode by NSC": VendorNationalSemi,
		"NexGenDriven": VendorNexGen,
		"RiseRiseRise": VendorRise,
		"SiS SiS SiS ": VendorSiS,
		"UMC UMC UMC ": VendorUMC,
		"VIA VIA VIA ": VendorVIA,
		"Vortex86 SoC": VendorVortex,
	}
	for sig, want := range cases {
		got := VendorFrom(leaf0From(sig))
		assert.Equal(t, want, got, "signature %q", sig)
	}
}

func TestHypervisorFromTable(t *testing.T) {
	cases := map[string]Vendor{
		"bhyve bhyve ":        VendorBhyve,
		"KVMKVMKVM\x00\x00\x00": VendorKVM,
		"Microsoft Hv":        VendorHyperV,
		"lrpepyh vr\x00\x00":  VendorParallels,
		"VMwareVMware":        VendorVMware,
		"XenVMMXenVMM":        VendorXenHVM,
		"TCGTCGTCGTCG":        VendorQEMUTCG,
	}
	for sig, want := range cases {
		got := HypervisorFrom(leaf0From(sig), nil)
		assert.Equal(t, want, got, "signature %q", sig)
	}
}

func TestHypervisorFromXenUnderHyperV(t *testing.T) {
	base := leaf0From("Microsoft Hv")
	xen := leaf0From("XenVMMXenVMM")
	got := HypervisorFrom(base, &xen)
	assert.Equal(t, VendorHyperV|VendorXenHVM, got)
	assert.Equal(t, "Xen HVM with Viridian Extensions", got.HypervisorName())
}

func TestVendorUnknownSignature(t *testing.T) {
	got := VendorFrom(leaf0From("NotARealVendor"[:12]))
	assert.Equal(t, VendorUnknown, got)
}

func TestVendorIntersects(t *testing.T) {
	v := VendorIntel | VendorKVM
	assert.True(t, v.Intersects(VendorIntel))
	assert.True(t, v.Intersects(VendorKVM))
	assert.False(t, v.Intersects(VendorAMD))
}
